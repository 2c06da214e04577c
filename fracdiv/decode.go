// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracdiv

import (
	"fmt"
	"math"
)

// VCO returns the VCO frequency (MHz) configured by the control word.
// VCO does not check the frequency against the VCO range.
func VCO(cw ControlWord) (float64, error) {
	qp, qp1 := cw.Qp(), cw.Qp1()
	if qp+qp1 == 0 {
		return 0, fmt.Errorf("fracdiv: Qp+Qp-1 is zero (cw=%v): %w", cw, ErrInvalidControlWord)
	}
	return vcoOf(cw.DivSel(), qp, qp1), nil
}

// Decode returns the event-clock frequency (MHz) produced by the
// synthesizer when configured with the control word.
//
// Decode fails with ErrInvalidControlWord when the VCO frequency is outside
// [VCOMin, VCOMax] or when the M/N dividers form a combination the chip
// does not support.
func Decode(cw ControlWord) (float64, error) {
	vco, err := VCO(cw)
	if err != nil {
		return 0, err
	}

	switch {
	case vco < VCOMin:
		return 0, fmt.Errorf(
			"fracdiv: VCO frequency too low %f < %v MHz (cw=%v): %w",
			vco, VCOMin, cw, ErrInvalidControlWord,
		)
	case vco > VCOMax:
		return 0, fmt.Errorf(
			"fracdiv: VCO frequency too high %f > %v MHz (cw=%v): %w",
			vco, VCOMax, cw, ErrInvalidControlWord,
		)
	}

	var (
		post = postDividers[cw.PostDivSel()]
		mdiv = dividers[cw.MdivSel()]
		ndiv = dividers[cw.NdivSel()]
	)
	if forbidden(mdiv, ndiv) {
		return 0, fmt.Errorf(
			"fracdiv: invalid Mdiv=%d, Ndiv=%d combination (cw=%v): %w",
			mdiv, ndiv, cw, ErrInvalidControlWord,
		)
	}

	return synth(vco, post, mdiv, ndiv), nil
}

// UsecDiv returns the value of the microsecond divider matching the
// control word: the integer part of the event-clock frequency in MHz.
func UsecDiv(cw ControlWord) (uint32, error) {
	freq, err := Decode(cw)
	if err != nil {
		return 0, err
	}
	return uint32(math.Floor(freq)), nil
}
