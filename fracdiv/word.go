// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracdiv

import (
	"fmt"
)

// Bit layout of a control word.
const (
	qpShift     = 23
	qp1Shift    = 18
	divselShift = 14
	postShift   = 6
	ndivShift   = 3
	mdivShift   = 0

	qpMask     = 0x1f
	qp1Mask    = 0x1f
	divselMask = 0x0f
	postMask   = 0x1f
	ndivMask   = 0x07
	mdivMask   = 0x07

	divselOffset = 17
)

// ControlWord is the configuration word of the fractional synthesizer,
// as written to the FracDiv register of an EVG or EVR.
type ControlWord uint32

// Qp returns the Qp fractional-interpolation parameter.
func (cw ControlWord) Qp() int { return int(cw>>qpShift) & qpMask }

// Qp1 returns the Qp-1 fractional-interpolation parameter.
func (cw ControlWord) Qp1() int { return int(cw>>qp1Shift) & qp1Mask }

// DivSel returns the integer VCO divider, in [17, 32].
func (cw ControlWord) DivSel() int { return int(cw>>divselShift)&divselMask + divselOffset }

// PostDivSel returns the post-divider selector, an index into the post-divider table.
func (cw ControlWord) PostDivSel() int { return int(cw>>postShift) & postMask }

// NdivSel returns the N divider selector, an index into the M/N divider table.
func (cw ControlWord) NdivSel() int { return int(cw>>ndivShift) & ndivMask }

// MdivSel returns the M divider selector, an index into the M/N divider table.
func (cw ControlWord) MdivSel() int { return int(cw>>mdivShift) & mdivMask }

func (cw ControlWord) String() string {
	return fmt.Sprintf("0x%08x", uint32(cw))
}

// Params holds the unpacked fields of a control word.
// PostDivSel, Ndiv and Mdiv are table selectors, not divider values.
type Params struct {
	Qp         int
	Qp1        int
	DivSel     int
	PostDivSel int
	Ndiv       int
	Mdiv       int
}

// Unpack extracts the synthesizer parameters from a control word.
// Unused bits are ignored.
func Unpack(cw ControlWord) Params {
	return Params{
		Qp:         cw.Qp(),
		Qp1:        cw.Qp1(),
		DivSel:     cw.DivSel(),
		PostDivSel: cw.PostDivSel(),
		Ndiv:       cw.NdivSel(),
		Mdiv:       cw.MdivSel(),
	}
}

// Pack encodes the synthesizer parameters into a control word.
// Pack only checks that each field fits in its bit range.
func (p Params) Pack() (ControlWord, error) {
	for _, f := range []struct {
		name     string
		v        int
		min, max int
	}{
		{"Qp", p.Qp, 0, qpMask},
		{"Qp-1", p.Qp1, 0, qp1Mask},
		{"DivSel", p.DivSel, divselOffset, divselOffset + divselMask},
		{"PostDivSel", p.PostDivSel, 0, postMask},
		{"NdivSel", p.Ndiv, 0, ndivMask},
		{"MdivSel", p.Mdiv, 0, mdivMask},
	} {
		if f.v < f.min || f.v > f.max {
			return 0, fmt.Errorf(
				"fracdiv: %s=%d out of range [%d, %d]: %w",
				f.name, f.v, f.min, f.max, ErrInvalidControlWord,
			)
		}
	}
	return p.pack(), nil
}

func (p Params) pack() ControlWord {
	return ControlWord(p.Qp)<<qpShift |
		ControlWord(p.Qp1)<<qp1Shift |
		ControlWord(p.DivSel-divselOffset)<<divselShift |
		ControlWord(p.PostDivSel)<<postShift |
		ControlWord(p.Ndiv)<<ndivShift |
		ControlWord(p.Mdiv)<<mdivShift
}
