// Command gen-signal writes a synthetic sine trace to a data file suitable
// for the file acquirer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/signal.report/internal/acquire"
	"github.com/banshee-data/signal.report/internal/signal"
)

func main() {
	output := flag.String("o", "signal.txt", "output path")
	samples := flag.Int("n", 100, "number of samples")
	amplitude := flag.Float64("amplitude", 1.0, "sine amplitude")
	frequency := flag.Float64("frequency", 1.0, "sine frequency in Hz")
	rate := flag.Float64("rate", 100.0, "sample rate in Hz")
	noise := flag.Float64("noise", 0.0, "uniform noise amplitude")
	seed := flag.Int64("seed", 0, "noise seed (0 uses a random seed)")
	flag.Parse()

	buf, err := signal.NewBuffer(signal.KindSlice, *samples)
	if err != nil {
		log.Fatalf("failed to create buffer: %v", err)
	}
	sig := signal.New(buf)

	gen := acquire.NewSine(acquire.Config{
		Samples:    *samples,
		Amplitude:  *amplitude,
		Frequency:  *frequency,
		SampleRate: *rate,
		Noise:      *noise,
	}, sig)
	if *seed != 0 {
		gen.Seed(*seed)
	}
	if err := gen.Acquire(context.Background()); err != nil {
		log.Fatalf("failed to generate samples: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()
	for _, v := range sig.Values() {
		fmt.Fprintf(f, "%g\n", v)
	}
	log.Printf("✓ Created: %s (%d samples)", *output, sig.Len())
}
