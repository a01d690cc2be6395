// Command floorsnap evaluates a floorplan scene and prints the snap
// corrections for its dragged element as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chazu/floorsnap/pkg/config"
	"github.com/chazu/floorsnap/pkg/debugplot"
)

func main() {
	scenePath := flag.String("scene", "", "scene source file (required)")
	configPath := flag.String("config", "", "tuning JSON file")
	plotPath := flag.String("plot", "", "write a debug plot of the frame to this file (.png, .svg, .pdf)")
	flag.Parse()

	if *scenePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	source, err := os.ReadFile(*scenePath)
	if err != nil {
		log.Fatalf("failed to read scene: %v", err)
	}

	report := NewApp(cfg).Evaluate(string(source))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("encode report: %v", err)
	}

	if *plotPath != "" {
		f := report.Frame
		if err := debugplot.Render(*plotPath, f.Clients, f.Masters, f.Results); err != nil {
			log.Fatalf("plot: %v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", *plotPath)
	}

	if len(report.Errors) > 0 {
		os.Exit(1)
	}
}
