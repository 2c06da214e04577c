// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// mrf-sweep scans a range of event-clock frequencies and reports the
// quantization error of the fractional synthesizer.
//
// Usage: mrf-sweep [OPTIONS]
//
// Example:
//
//	$> mrf-sweep -min 120 -max 130 -step 0.01 -o sweep.csv -yoda sweep.yoda
//	mrf-sweep: sweeping [120, 130] MHz by 0.01 MHz...
//	points:    1001
//	reachable: 1001
//	mean:      [...] ppm
//	rms:       [...] ppm
package main // import "github.com/go-lpc/mrf/cmd/mrf-sweep"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-lpc/mrf/internal/sweep"
)

func main() {
	log.SetPrefix("mrf-sweep: ")
	log.SetFlags(0)

	var (
		lo    = flag.Float64("min", 10, "lowest frequency to scan (MHz)")
		hi    = flag.Float64("max", 700, "highest frequency to scan (MHz)")
		step  = flag.Float64("step", 0.01, "frequency step (MHz)")
		nwrk  = flag.Int("j", runtime.NumCPU(), "number of concurrent workers")
		ppm   = flag.Float64("ppm", 50, "range of the error histogram (ppm)")
		nbins = flag.Int("nbins", 100, "number of bins of the error histogram")
		ocsv  = flag.String("o", "", "path to output CSV file")
		oyoda = flag.String("yoda", "", "path to output YODA file with the error histogram")
	)

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Stdout, *lo, *hi, *step, *ocsv, *oyoda,
		sweep.WithWorkers(*nwrk),
		sweep.WithBins(*nbins, -*ppm, +*ppm),
	)
	if err != nil {
		log.Fatalf("could not run sweep: %+v", err)
	}
}

func run(ctx context.Context, w io.Writer, lo, hi, step float64, ocsv, oyoda string, opts ...sweep.Option) error {
	log.Printf("sweeping [%v, %v] MHz by %v MHz...", lo, hi, step)
	res, err := sweep.Run(ctx, lo, hi, step, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "points:    %d\n", len(res.Points))
	fmt.Fprintf(w, "reachable: %d\n", res.Reachable())
	if res.Hist.Entries() > 0 {
		fmt.Fprintf(w, "mean:      %+.3f ppm\n", res.Hist.XMean())
		fmt.Fprintf(w, "rms:       %.3f ppm\n", res.Hist.XRMS())
	}

	if ocsv != "" {
		err = res.WriteCSV(ocsv)
		if err != nil {
			return err
		}
	}

	if oyoda != "" {
		err = res.WriteYODA(oyoda)
		if err != nil {
			return err
		}
	}

	return nil
}
