// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracdiv

import (
	"fmt"
	"math"
)

// Solution describes the synthesizer configuration selected for a target
// frequency.
type Solution struct {
	Word   ControlWord // control word
	Target float64     // requested frequency (MHz)
	Freq   float64     // synthesized frequency (MHz)
	VCO    float64     // VCO frequency (MHz)
}

// Err returns the absolute error (MHz) between the synthesized and the
// requested frequencies.
func (sol Solution) Err() float64 {
	return math.Abs(sol.Freq - sol.Target)
}

// PPM returns the relative error of the synthesized frequency, in parts
// per million.
func (sol Solution) PPM() float64 {
	return (sol.Freq/sol.Target - 1) * 1e6
}

// Encode returns the control word whose synthesized frequency is the
// closest to freq (MHz).
//
// Encode fails with ErrUnreachableFrequency when no valid synthesizer
// configuration brings the VCO within range for freq.
func Encode(freq float64) (ControlWord, error) {
	sol, err := Solve(freq)
	if err != nil {
		return 0, err
	}
	return sol.Word, nil
}

// Solve runs the exhaustive search behind Encode and reports the selected
// configuration.
//
// Candidates are visited by increasing post-divider selector, then Qp, Qp-1,
// M and N selectors. The first configuration with the smallest error wins.
func Solve(freq float64) (Solution, error) {
	if math.IsNaN(freq) || math.IsInf(freq, 0) || freq <= 0 {
		return Solution{}, fmt.Errorf("fracdiv: invalid target frequency %v MHz: %w", freq, ErrUnreachableFrequency)
	}

	posts := window(freq)
	if len(posts) == 0 {
		return Solution{}, fmt.Errorf(
			"fracdiv: target frequency %f MHz requires unreachable VCO range: %w",
			freq, ErrUnreachableFrequency,
		)
	}

	const sentinel = 1000.0 // MHz

	var (
		best  Params
		sol   Solution
		found = false
		emin  = sentinel
	)
	for _, ipost := range posts {
		post := postDividers[ipost]
		divsel := int(freq*float64(post)/RefOsc + 0.8)
		if divsel < divselOffset || divsel > divselOffset+divselMask {
			continue
		}
		for qp := 1; qp <= qpMask; qp++ {
			for qp1 := 0; qp1 <= qp1Mask; qp1++ {
				vco := vcoOf(divsel, qp, qp1)
				if vco < VCOMin || vco > VCOMax {
					continue
				}
				for im, mdiv := range dividers {
					for in, ndiv := range dividers {
						if forbidden(mdiv, ndiv) {
							continue
						}
						f := synth(vco, post, mdiv, ndiv)
						diff := math.Abs(f - freq)
						if diff >= emin {
							continue
						}
						emin = diff
						found = true
						best = Params{
							Qp:         qp,
							Qp1:        qp1,
							DivSel:     divsel,
							PostDivSel: ipost,
							Ndiv:       in,
							Mdiv:       im,
						}
						sol.Freq = f
						sol.VCO = vco
					}
				}
			}
		}
	}

	if !found {
		return Solution{}, fmt.Errorf(
			"fracdiv: no synthesizer configuration within %v MHz of %f MHz: %w",
			sentinel, freq, ErrUnreachableFrequency,
		)
	}

	sol.Word = best.pack()
	sol.Target = freq
	return sol, nil
}

// window returns the post-divider selectors to search for freq, in
// increasing order.
//
// The window starts right after the last selector bringing freq*post below
// VCOMin and ends at the last selector keeping it below VCOMax.
func window(freq float64) []int {
	lo, hi := -1, -1
	for i, post := range postDividers {
		if !searchable(i) {
			continue
		}
		v := freq * float64(post)
		if v < VCOMin {
			lo = i
		}
		if v < VCOMax {
			hi = i
		}
	}
	lo++

	if hi < 0 || lo > hi {
		return nil
	}

	sel := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		if !searchable(i) {
			continue
		}
		sel = append(sel, i)
	}
	return sel
}
