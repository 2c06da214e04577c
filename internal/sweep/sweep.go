// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweep characterizes the quantization error of the fractional
// synthesizer over a range of event-clock frequencies.
package sweep // import "github.com/go-lpc/mrf/internal/sweep"

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/go-lpc/mrf/fracdiv"
	"go-hep.org/x/hep/csvutil"
	"go-hep.org/x/hep/hbook"
	"golang.org/x/sync/errgroup"
)

// Point is the outcome of encoding one target frequency.
type Point struct {
	Target float64             // requested frequency (MHz)
	Word   fracdiv.ControlWord // selected control word
	Freq   float64             // decoded frequency (MHz)
	Err    error               // non-nil when the target is unreachable
}

// OK reports whether the target frequency could be synthesized.
func (p Point) OK() bool { return p.Err == nil }

// PPM returns the relative error of the synthesized frequency.
func (p Point) PPM() float64 {
	return (p.Freq/p.Target - 1) * 1e6
}

// maxPoints is the largest number of frequencies a single sweep evaluates.
const maxPoints = 1 << 24

type config struct {
	workers int
	nbins   int
	min     float64 // ppm
	max     float64 // ppm
}

func newConfig() config {
	return config{
		workers: runtime.NumCPU(),
		nbins:   100,
		min:     -50,
		max:     +50,
	}
}

// Option configures a sweep.
type Option func(cfg *config)

// WithWorkers sets the maximum number of concurrent encodings.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.workers = n
	}
}

// WithBins configures the binning (in ppm) of the error histogram.
func WithBins(n int, min, max float64) Option {
	return func(cfg *config) {
		cfg.nbins = n
		cfg.min = min
		cfg.max = max
	}
}

// Result holds the points of a sweep and the histogram of their relative
// errors.
type Result struct {
	Points []Point
	Hist   *hbook.H1D // relative error (ppm) of reachable points
}

// Reachable returns the number of synthesizable points.
func (res *Result) Reachable() int {
	n := 0
	for _, p := range res.Points {
		if p.OK() {
			n++
		}
	}
	return n
}

// Run encodes and decodes every frequency in [lo, hi] (MHz), by steps of
// step MHz.
//
// Unreachable frequencies are recorded in the result, they do not make Run
// fail. Run fails when the range is invalid, when a control word selected
// by the encoder cannot be decoded back, or when ctx is canceled.
func Run(ctx context.Context, lo, hi, step float64, opts ...Option) (*Result, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case step <= 0 || math.IsNaN(step):
		return nil, fmt.Errorf("sweep: invalid step %v", step)
	case !(lo <= hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0):
		return nil, fmt.Errorf("sweep: invalid range [%v, %v]", lo, hi)
	case cfg.workers <= 0:
		return nil, fmt.Errorf("sweep: invalid number of workers %d", cfg.workers)
	case cfg.nbins <= 0 || !(cfg.min < cfg.max):
		return nil, fmt.Errorf("sweep: invalid binning (n=%d, min=%v, max=%v)", cfg.nbins, cfg.min, cfg.max)
	}

	npts := math.Floor((hi-lo)/step) + 1
	if npts > maxPoints {
		return nil, fmt.Errorf("sweep: too many points (%v > %d)", npts, maxPoints)
	}
	pts := make([]Point, int(npts))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(cfg.workers)
	for i := range pts {
		i := i
		if gctx.Err() != nil {
			break
		}
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return eval(&pts[i], lo+float64(i)*step)
		})
	}
	err := grp.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("sweep: could not run sweep: %w", err)
	}

	res := &Result{
		Points: pts,
		Hist:   hbook.NewH1D(cfg.nbins, cfg.min, cfg.max),
	}
	res.Hist.Ann["name"] = "ppm"
	res.Hist.Ann["title"] = fmt.Sprintf("event-clock error [%v, %v] MHz (ppm)", lo, hi)
	for _, p := range pts {
		if !p.OK() {
			continue
		}
		res.Hist.Fill(p.PPM(), 1)
	}

	return res, nil
}

func eval(p *Point, freq float64) error {
	p.Target = freq
	cw, err := fracdiv.Encode(freq)
	if err != nil {
		if errors.Is(err, fracdiv.ErrUnreachableFrequency) {
			p.Err = err
			return nil
		}
		return err
	}
	p.Word = cw
	p.Freq, err = fracdiv.Decode(cw)
	if err != nil {
		return fmt.Errorf("could not decode control word %v for %v MHz: %w", cw, freq, err)
	}
	return nil
}

// WriteCSV writes the reachable points of the sweep to the named CSV file.
func (res *Result) WriteCSV(fname string) error {
	tbl, err := csvutil.Create(fname)
	if err != nil {
		return fmt.Errorf("sweep: could not create CSV file %q: %w", fname, err)
	}
	tbl.Writer.Comma = ';'

	err = res.writeCSV(tbl)
	if err != nil {
		_ = tbl.Close()
		return err
	}

	err = tbl.Close()
	if err != nil {
		return fmt.Errorf("sweep: could not close CSV file %q: %w", fname, err)
	}
	return nil
}

func (res *Result) writeCSV(tbl *csvutil.Table) error {
	err := tbl.WriteHeader("## target (MHz), control word, frequency (MHz), error (ppm)\n")
	if err != nil {
		return fmt.Errorf("sweep: could not write CSV header: %w", err)
	}

	for _, p := range res.Points {
		if !p.OK() {
			continue
		}
		err = tbl.WriteRow(p.Target, p.Word.String(), p.Freq, p.PPM())
		if err != nil {
			return fmt.Errorf("sweep: could not write CSV row: %w", err)
		}
	}
	return nil
}

// WriteYODA writes the error histogram to the named file, in YODA format.
func (res *Result) WriteYODA(fname string) error {
	raw, err := res.Hist.MarshalYODA()
	if err != nil {
		return fmt.Errorf("sweep: could not marshal histogram: %w", err)
	}
	err = os.WriteFile(fname, raw, 0644)
	if err != nil {
		return fmt.Errorf("sweep: could not write YODA file %q: %w", fname, err)
	}
	return nil
}
