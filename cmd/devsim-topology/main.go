// Command devsim-topology loads a simulation config file and prints its
// topology as a Graphviz DOT graph, for use with `dot -Tpng` or similar.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-devs/devsim/sim"
	"github.com/go-devs/devsim/sim/config"
)

func main() {
	fs := flag.NewFlagSet("devsim-topology", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to topology YAML file (required)")
	checkOnly := fs.Bool("check", false, "validate the topology and exit without printing the graph")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "devsim-topology: -config is required")
		fs.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *checkOnly); err != nil {
		fmt.Fprintf(os.Stderr, "devsim-topology: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, checkOnly bool) error {
	doc, err := config.Load(configPath)
	if err != nil {
		return err
	}

	factory := config.NewModelFactory()
	// Callers embedding devsim register their own model types before
	// loading a real topology; this CLI only validates structure and
	// renders connectivity, so an empty factory is sufficient as long
	// as the config declares no models — a config with models requires
	// a purpose-built factory and is better driven through sim/config
	// directly from Go code.
	s, err := doc.BuildSimulation(factory)
	if err != nil {
		return err
	}

	if err := sim.NewChecker(s).Check(); err != nil {
		return fmt.Errorf("topology check failed: %w", err)
	}

	if checkOnly {
		fmt.Println("topology OK")
		return nil
	}

	fmt.Print(sim.NewReport(s).GenerateDotGraph())
	return nil
}
