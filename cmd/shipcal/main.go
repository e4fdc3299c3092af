package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	"shipcal/internal/config"
	"shipcal/internal/ingest"
	"shipcal/internal/log"
	"shipcal/internal/shipcal"
	"shipcal/internal/simulator"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type options struct {
	scenario string
	csvOut   string
	jsonOut  bool
}

// progress prints month completion to stderr.
type progress struct{ w io.Writer }

func (p progress) OnProgress(pr simulator.Progress) {
	fmt.Fprintf(p.w, "  %s done (%d/%d h)\n", monthNames[pr.Month], pr.HoursDone, pr.HoursTotal)
}

func main() {
	var opts options
	pflag.StringVarP(&opts.scenario, "scenario", "s", "scenario.yaml", "scenario file")
	pflag.StringVarP(&opts.csvOut, "out", "o", "", "write hourly outputs to this CSV file")
	pflag.BoolVar(&opts.jsonOut, "json", false, "print the result as JSON instead of a table")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	f, err := config.Load(opts.scenario)
	if err != nil {
		return err
	}
	sc, err := f.Scenario()
	if err != nil {
		return err
	}
	sc.Callback = progress{w: stderr}
	sc.OmitTimesteps = opts.csvOut == ""

	res, err := shipcal.Run(ctx, sc)
	var degen *simulator.DegenerateConfigurationError
	switch {
	case errors.As(err, &degen):
		log.Warnw("degenerate configuration", "error", err)
	case err != nil:
		return err
	}

	if opts.csvOut != "" {
		if err := writeCSV(opts.csvOut, res.Timesteps); err != nil {
			return err
		}
		log.Infof("Wrote %d hours to %s", len(res.Timesteps), opts.csvOut)
	}

	if opts.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printSummary(stdout, f, res)
	return nil
}

func writeCSV(path string, rows []simulator.TimestepOutput) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := ingest.WriteOutputs(out, rows); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

func printSummary(w io.Writer, f *config.File, res *shipcal.SimulationResult) {
	s := res.Summary
	d := res.Design
	r := res.Report

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s\n", f.Site.Name, d.Topology.Info().Name)
	fmt.Fprintf(w, "  Field: %d loops x %d collectors, %.0f m2 (%s)\n",
		f.Plant.NumberOfLoops, f.Plant.CollectorsPerLoop, d.FieldAreaM2, d.Optics.Collector.Name)
	fmt.Fprintf(w, "  Process: %.1f -> %.1f C at %.2f MPa\n",
		f.Plant.ProcessInletTempC, f.Plant.ProcessOutletTempC, d.PressureMPa)
	if d.HasStorage() {
		fmt.Fprintf(w, "  Storage: %.1f m3, %.0f kWh usable, %.1f cycles/year\n",
			d.StorageVolumeM3, d.StorageMaxKWh-d.StorageFloorKWh, res.StorageCycles)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, " %5s │ %12s │ %12s │ %12s │ %8s\n", "Month", "Production", "Delivered", "Demand", "Solar")
	fmt.Fprintf(w, "───────┼──────────────┼──────────────┼──────────────┼──────────\n")
	for _, m := range s.Months {
		fmt.Fprintf(w, " %5s │ %8.0f kWh │ %8.0f kWh │ %8.0f kWh │ %7.1f%%\n",
			monthNames[m.Month], m.ProductionKWh, m.ProdLimKWh, m.DemandKWh, m.SolarFraction)
	}
	fmt.Fprintf(w, "───────┼──────────────┼──────────────┼──────────────┼──────────\n")
	fmt.Fprintf(w, " %5s │ %8.0f kWh │ %8.0f kWh │ %8.0f kWh │ %7.1f%%\n",
		"Year", s.ProductionMaxKWh, s.ProductionLimKWh, s.DemandKWh, s.SolarFractionLim)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Hours on: %d, recirculating: %d, defocused: %.0f kWh\n",
		s.HoursOn, s.HoursRecirculating, s.DefocusKWh)
	fmt.Fprintf(w, "  Utilization: %.1f%%, CO2 saved: %.1f t/year\n", s.UtilizationRatio, s.TonCO2Saved)
	fmt.Fprintf(w, "  Capital cost: %.0f, business model: %s\n", res.CapitalCost, r.BusinessModel)
	if r.LCOE != nil {
		fmt.Fprintf(w, "  LCOE: %s per kWh\n", r.LCOE.String())
	} else {
		fmt.Fprintf(w, "  LCOE: -\n")
	}
	irr := "-"
	if r.IRRPercent != nil {
		irr = r.IRRPercent.String() + "%"
	}
	payback := "never"
	if r.PaybackYear >= 0 {
		payback = fmt.Sprintf("year %d", r.PaybackYear)
	}
	fmt.Fprintf(w, "  IRR: %s, payback: %s\n", irr, payback)
	fmt.Fprintf(w, "  Simulated in %s\n", res.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)
}
