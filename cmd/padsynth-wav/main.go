// Command padsynth-wav resynthesizes a WAV sample into a seamlessly
// loopable pad sound.
//
// Usage:
//
//	padsynth-wav input.wav config.yaml output.wav
//	padsynth-wav -v input.wav config.yaml output.wav   # Verbose output
//
// The configuration file describes how the source is analyzed and how the
// pad is rendered; see the repository documentation for the full format.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	padsynth "github.com/tphakala/go-padsynth"
)

const minRequiredArgs = 3

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav config.yaml output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	inputPath := args[0]
	configPath := args[1]
	outputPath := args[2]

	source, sourceRate, err := decodeWAV(inputPath)
	if err != nil {
		return err
	}
	if *verbose {
		log.Printf("Input: %s (%d samples at %d Hz)", inputPath, len(source), sourceRate)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if *verbose {
		log.Printf("Config: %s (%d chord notes, seed %d)",
			configPath, len(cfg.Output.Chord), cfg.Output.Seed)
	}

	start := time.Now()
	out, err := padsynth.Render(source, sourceRate, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := encodeWAV(outputPath, out, cfg.Output.SampleRate); err != nil {
		return err
	}

	fmt.Printf("Resynthesized %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d samples at %d Hz, rendered in %.2fs\n",
		len(out), cfg.Output.SampleRate, elapsed.Seconds())

	return nil
}
