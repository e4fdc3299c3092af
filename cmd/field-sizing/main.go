package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"shipcal/internal/config"
	"shipcal/internal/log"
	"shipcal/internal/sizing"
)

func main() {
	scenarioPath := pflag.StringP("scenario", "s", "scenario.yaml", "scenario file")
	loopsFlag := pflag.String("loops", "", "comma-separated loop counts (overrides --from/--to/--step)")
	from := pflag.Int("from", 1, "smallest number of loops")
	to := pflag.Int("to", 20, "largest number of loops")
	step := pflag.Int("step", 1, "loop count increment")
	parallel := pflag.IntP("parallel", "j", runtime.NumCPU(), "simulations run concurrently")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	loops := sizing.Range(*from, *to, *step)
	if *loopsFlag != "" {
		var err error
		if loops, err = parseLoops(*loopsFlag); err != nil {
			log.Fatalf("Invalid loops %q: %v", *loopsFlag, err)
		}
	}
	if len(loops) == 0 {
		log.Fatalf("No loop counts to simulate")
	}

	f, err := config.Load(*scenarioPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	sc, err := f.Scenario()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "Simulating %d field sizes...\n", len(loops))
	res, err := sizing.Sweep(ctx, sc, loops, *parallel)
	if err != nil {
		log.Fatalf("Sweep: %v", err)
	}
	printTable(os.Stdout, f, res)
}

func printTable(w io.Writer, f *config.File, res sizing.Result) {
	if len(res.Candidates) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Solar Field Size Comparison")
	fmt.Fprintf(w, "  Site: %s, topology: %s\n", f.Site.Name, f.Plant.Topology.Info().Name)
	fmt.Fprintf(w, "  Collectors per loop: %d, business model: %s\n", f.Plant.CollectorsPerLoop, f.Cost.BusinessModel)
	fmt.Fprintln(w)

	fmt.Fprintf(w, " %5s │ %9s │ %10s │ %12s │ %7s │ %8s │ %8s │ %7s\n",
		"Loops", "Area", "Capex", "Delivered", "Solar", "Marginal", "LCOE", "Payback")
	fmt.Fprintf(w, "───────┼───────────┼────────────┼──────────────┼─────────┼──────────┼──────────┼─────────\n")

	for i, c := range res.Candidates {
		marginal := "-"
		if i > 0 {
			prev := res.Candidates[i-1]
			if dA := c.FieldAreaM2 - prev.FieldAreaM2; dA > 0 {
				marginal = fmt.Sprintf("%.0f", (c.ProductionLimKWh-prev.ProductionLimKWh)/dA)
			}
		}
		lcoe := "-"
		if !math.IsInf(c.LCOE, 0) && !math.IsNaN(c.LCOE) {
			lcoe = fmt.Sprintf("%.4f", c.LCOE)
		}
		payback := "never"
		if c.PaybackYear >= 0 {
			payback = strconv.Itoa(c.PaybackYear)
		}
		mark := " "
		if i == res.Best {
			mark = "*"
		}
		fmt.Fprintf(w, "%s%5d │ %6.0f m2 │ %10.0f │ %8.0f kWh │ %6.1f%% │ %8s │ %8s │ %7s\n",
			mark, c.NumberOfLoops, c.FieldAreaM2, c.CapitalCost, c.ProductionLimKWh,
			c.SolarFraction, marginal, lcoe, payback)
	}
	fmt.Fprintln(w)
	if res.Best >= 0 {
		fmt.Fprintf(w, "  * lowest LCOE at %d loops\n", res.Candidates[res.Best].NumberOfLoops)
	}
	fmt.Fprintln(w, "  Marginal: extra kWh delivered per extra m2 of aperture")
	fmt.Fprintln(w)
}

func parseLoops(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	loops := make([]int, 0, len(parts))
	seen := make(map[int]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("loop count must be positive, got %v", v)
		}
		if !seen[v] {
			seen[v] = true
			loops = append(loops, v)
		}
	}
	if len(loops) == 0 {
		return nil, fmt.Errorf("no loop counts specified")
	}
	sort.Ints(loops)
	return loops, nil
}
