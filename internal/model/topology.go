package model

import (
	"fmt"
	"strings"
)

// Topology identifies how the solar field is integrated into the process.
type Topology string

const (
	TopologyParallel           Topology = "SL_L_P"
	TopologyParallelHX         Topology = "SL_L_PHX"
	TopologyParallelStorage    Topology = "SL_L_PS"
	TopologyDirectReturnFlow   Topology = "SL_L_DRF"
	TopologyReturnFlowHX       Topology = "SL_L_RF"
	TopologyFeedWater          Topology = "SL_S_FW"
	TopologyFeedWaterStorage   Topology = "SL_S_FWS"
	TopologyMakeUpWater        Topology = "SL_S_MW"
	TopologyMakeUpWaterStorage Topology = "SL_S_MWS"
	TopologySteamOnceThrough   Topology = "SL_S_PDOT"
	TopologySteamDrum          Topology = "SL_S_PD"
	TopologySteamDrumStorage   Topology = "SL_S_PDS"
)

// Medium is the state of the fluid the field delivers to the process.
type Medium string

const (
	MediumLiquid  Medium = "liquid"  // hot water, thermal oil or salt loop
	MediumPreheat Medium = "preheat" // water heated toward saturation for a steam boiler
	MediumSteam   Medium = "steam"   // direct steam generation in the field
)

// TopologyInfo describes the static traits of a topology.
type TopologyInfo struct {
	Alias         string
	Name          string
	Medium        Medium
	Storage       bool // sensible storage tank between field and process
	Drum          bool // steam drum buffer
	HeatExchanger bool // field and process separated by an exchanger
	ReturnFlow    bool // field boosts the process return line
	OpenLoop      bool // field inlet is always fresh supply water
}

// TopologyCatalog maps every known topology to its traits.
var TopologyCatalog = map[Topology]TopologyInfo{
	TopologyParallel: {
		Alias: "parallel", Name: "Parallel, direct supply",
		Medium: MediumLiquid,
	},
	TopologyParallelHX: {
		Alias: "parallel-with-heat-exchanger", Name: "Parallel with heat exchanger",
		Medium: MediumLiquid, HeatExchanger: true,
	},
	TopologyParallelStorage: {
		Alias: "parallel-with-storage", Name: "Parallel with storage",
		Medium: MediumLiquid, Storage: true,
	},
	TopologyDirectReturnFlow: {
		Alias: "direct-return-flow", Name: "Direct return-flow boost",
		Medium: MediumLiquid, ReturnFlow: true,
	},
	TopologyReturnFlowHX: {
		Alias: "return-flow-with-heat-exchanger", Name: "Return-flow boost with heat exchanger",
		Medium: MediumLiquid, ReturnFlow: true, HeatExchanger: true,
	},
	TopologyFeedWater: {
		Alias: "feed-water-preheat", Name: "Feed-water preheat",
		Medium: MediumPreheat, OpenLoop: true,
	},
	TopologyFeedWaterStorage: {
		Alias: "feed-water-preheat-with-storage", Name: "Feed-water preheat with storage",
		Medium: MediumPreheat, OpenLoop: true, Storage: true,
	},
	TopologyMakeUpWater: {
		Alias: "make-up-water", Name: "Make-up water heating",
		Medium: MediumPreheat, OpenLoop: true,
	},
	TopologyMakeUpWaterStorage: {
		Alias: "make-up-water-with-storage", Name: "Make-up water heating with storage",
		Medium: MediumPreheat, OpenLoop: true, Storage: true,
	},
	TopologySteamOnceThrough: {
		Alias: "direct-steam-once-through", Name: "Direct steam generation, once-through",
		Medium: MediumSteam,
	},
	TopologySteamDrum: {
		Alias: "direct-steam-with-drum", Name: "Direct steam generation with drum",
		Medium: MediumSteam, Drum: true,
	},
	TopologySteamDrumStorage: {
		Alias: "direct-steam-with-drum-and-storage", Name: "Direct steam generation with drum and storage",
		Medium: MediumSteam, Drum: true, Storage: true,
	},
}

// topologyOrder fixes the listing order used by Topologies.
var topologyOrder = []Topology{
	TopologyParallel,
	TopologyParallelHX,
	TopologyParallelStorage,
	TopologyDirectReturnFlow,
	TopologyReturnFlowHX,
	TopologyFeedWater,
	TopologyFeedWaterStorage,
	TopologyMakeUpWater,
	TopologyMakeUpWaterStorage,
	TopologySteamOnceThrough,
	TopologySteamDrum,
	TopologySteamDrumStorage,
}

// aliasToTopology is the reverse of TopologyCatalog[*].Alias.
var aliasToTopology map[string]Topology

func init() {
	aliasToTopology = make(map[string]Topology, len(TopologyCatalog))
	for t, info := range TopologyCatalog {
		aliasToTopology[info.Alias] = t
	}
}

// Topologies returns all topologies in catalogue order.
func Topologies() []Topology {
	out := make([]Topology, len(topologyOrder))
	copy(out, topologyOrder)
	return out
}

// ParseTopology accepts either the tag ("SL_L_PS") or the alias
// ("parallel-with-storage"), case-insensitively.
func ParseTopology(s string) (Topology, error) {
	s = strings.TrimSpace(s)
	if t := Topology(strings.ToUpper(s)); t.Valid() {
		return t, nil
	}
	if t, ok := aliasToTopology[strings.ToLower(s)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown integration topology %q", s)
}

// Valid reports whether t is one of the catalogued topologies.
func (t Topology) Valid() bool {
	_, ok := TopologyCatalog[t]
	return ok
}

// Info returns the static traits of t. Unknown topologies yield the zero value.
func (t Topology) Info() TopologyInfo {
	return TopologyCatalog[t]
}

// FluidKind is the heat-transfer fluid circulating in the field.
type FluidKind string

const (
	FluidWater      FluidKind = "water"
	FluidThermalOil FluidKind = "thermal_oil"
	FluidMoltenSalt FluidKind = "molten_salt"
)

// ParseFluidKind parses a fluid name; the empty string means water.
func ParseFluidKind(s string) (FluidKind, error) {
	switch FluidKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", FluidWater:
		return FluidWater, nil
	case FluidThermalOil, "oil":
		return FluidThermalOil, nil
	case FluidMoltenSalt, "salt":
		return FluidMoltenSalt, nil
	}
	return "", fmt.Errorf("unknown fluid kind %q", s)
}

// BusinessModel selects who finances the plant.
type BusinessModel string

const (
	BusinessTurnkey BusinessModel = "turnkey"
	BusinessESCO    BusinessModel = "esco"
)

// ParseBusinessModel parses a business model name; the empty string means turnkey.
func ParseBusinessModel(s string) (BusinessModel, error) {
	switch BusinessModel(strings.ToLower(strings.TrimSpace(s))) {
	case "", BusinessTurnkey:
		return BusinessTurnkey, nil
	case BusinessESCO:
		return BusinessESCO, nil
	}
	return "", fmt.Errorf("unknown business model %q", s)
}

// Status is the field operating mode for one timestep.
type Status string

const (
	StatusOff           Status = "OFF"
	StatusOn            Status = "ON"
	StatusRecirculating Status = "RECIRCULATING"
)
