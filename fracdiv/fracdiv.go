// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fracdiv converts between event-clock frequencies and the 32-bit
// control word of the SY87739L fractional synthesizer that drives the
// reference clock of MRF event generators and event receivers.
//
// The synthesizer produces:
//
//	vco  = RefOsc * (DivSel - Qp1/(Qp1+Qp))
//	freq = (vco / PostDivSel) * Ndiv / Mdiv
//
// where the VCO frequency must lie within [VCOMin, VCOMax] and some (Mdiv,Ndiv)
// pairs are not supported by the chip.
package fracdiv // import "github.com/go-lpc/mrf/fracdiv"

import (
	"errors"
)

const (
	RefOsc = 24.0  // reference oscillator frequency (MHz)
	VCOMin = 540.0 // minimal VCO frequency (MHz)
	VCOMax = 729.0 // maximal VCO frequency (MHz)
)

var (
	// ErrInvalidControlWord is returned when a control word describes a
	// synthesizer configuration the chip cannot run.
	ErrInvalidControlWord = errors.New("fracdiv: invalid control word")

	// ErrUnreachableFrequency is returned when no synthesizer configuration
	// can produce the requested frequency.
	ErrUnreachableFrequency = errors.New("fracdiv: unreachable frequency")
)

// postDividers maps the post-divider selector of a control word to the
// divider applied to the VCO frequency.
var postDividers = [32]int{
	1, 3, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	16, 18, 20, 22, 24, 26, 28, 30, 32, 36, 40, 44, 48, 52, 56, 60,
}

// dividers maps the M and N selectors of a control word to their
// divider values. Selectors 0 and 1 both resolve to 16.
var dividers = [8]int{16, 16, 18, 17, 31, 14, 32, 15}

// PostDividers returns a copy of the post-divider table, indexed by the
// post-divider selector of a control word.
func PostDividers() [32]int { return postDividers }

// Dividers returns a copy of the M/N divider table, indexed by the M and N
// selectors of a control word.
func Dividers() [8]int { return dividers }

// searchable reports whether the post-divider selector i may be chosen by
// the encoder. Selector 1 duplicates the value of selector 3.
func searchable(i int) bool {
	return i != 1
}

// forbidden reports whether the chip rejects the (m,n) divider values.
func forbidden(m, n int) bool {
	return (m <= 18 && n >= 31) ||
		(n <= 18 && m >= 31) ||
		(n == 18 && m == 14)
}

// vcoOf returns the VCO frequency (MHz) for the given DivSel, Qp and Qp1.
func vcoOf(divsel, qp, qp1 int) float64 {
	return RefOsc * (float64(divsel) - float64(qp1)/(float64(qp1)+float64(qp)))
}

// synth returns the output frequency (MHz) of the synthesizer.
func synth(vco float64, post, mdiv, ndiv int) float64 {
	return (vco / float64(post)) * float64(ndiv) / float64(mdiv)
}
