package simulator

import (
	"fmt"

	"shipcal/internal/model"
)

// ConfigurationError reports plant parameters that cannot be designed for
// the chosen topology. It is returned before any timestep is simulated.
type ConfigurationError struct {
	Topology model.Topology
	Field    string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration %s: %s", e.Topology, e.Reason)
	}
	return fmt.Sprintf("configuration %s: %s: %s", e.Topology, e.Field, e.Reason)
}

func configErr(t model.Topology, field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Topology: t, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DegenerateConfigurationError reports a run whose total production is zero
// or NaN. Sizing searches treat it as an infeasible design point.
type DegenerateConfigurationError struct {
	Topology      model.Topology
	ProductionKWh float64
}

func (e *DegenerateConfigurationError) Error() string {
	return fmt.Sprintf("degenerate configuration %s: annual production %v kWh", e.Topology, e.ProductionKWh)
}
