// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fracdiv

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestEncode(t *testing.T) {
	for _, tc := range []struct {
		freq float64
		want ControlWord
	}{
		{9, 0x008587c0},
		{10, 0x0089c780},
		{25, 0x058584c0},
		{50, 0x058582c0},
		{88.0525, 0x079e41c0},
		{99.9, 0x03f601b4},
		{100, 0x00820180},
		{124.9135, 0x023e4174},
		{142.8, 0x0205c100},
		{200, 0x008200c0},
		{270, 0x00858080},
		{300, 0x00820080},
		{364.4, 0x05cf8080},
		{540, 0x00858000},
		{600, 0x00820000},
		{700, 0x05770034},
		{728.99, 0x01978000},
	} {
		t.Run("", func(t *testing.T) {
			got, err := Encode(tc.freq)
			if err != nil {
				t.Fatalf("could not encode %v MHz: %+v", tc.freq, err)
			}
			if got != tc.want {
				t.Fatalf("invalid control word for %v MHz: got=%v, want=%v", tc.freq, got, tc.want)
			}
		})
	}
}

func TestEncodeUnreachable(t *testing.T) {
	for _, freq := range []float64{
		math.NaN(), math.Inf(+1), math.Inf(-1), -1, 0,
		1, 8.99,
		243, 250, 269.99,
		364.5, 400, 499.654, 539.99,
		729, 800, 1e6,
	} {
		t.Run("", func(t *testing.T) {
			cw, err := Encode(freq)
			if !errors.Is(err, ErrUnreachableFrequency) {
				t.Fatalf("freq=%v: invalid error: got=%+v (cw=%v), want=%+v", freq, err, cw, ErrUnreachableFrequency)
			}
			if cw != 0 {
				t.Fatalf("freq=%v: invalid control word on failure: %v", freq, cw)
			}
		})
	}
}

func TestEncodeScenario(t *testing.T) {
	const freq = 499.654 / 4.0

	sol, err := Solve(freq)
	if err != nil {
		t.Fatalf("could not solve for %v MHz: %+v", freq, err)
	}

	if ppm := math.Abs(sol.PPM()); ppm > 5 {
		t.Fatalf("error too large: %v ppm (freq=%v)", ppm, sol.Freq)
	}
	if sol.VCO < VCOMin || sol.VCO > VCOMax {
		t.Fatalf("vco out of range: %v", sol.VCO)
	}

	for i := 0; i < 3; i++ {
		got, err := Decode(sol.Word)
		if err != nil {
			t.Fatalf("could not decode %v: %+v", sol.Word, err)
		}
		if got != sol.Freq {
			t.Fatalf("decode mismatch: got=%v, want=%v", got, sol.Freq)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	freqs := []float64{9, 33.3, 88.0525, 124.9135, 212.5, 300, 650}
	want := make([]ControlWord, len(freqs))
	for i, freq := range freqs {
		cw, err := Encode(freq)
		if err != nil {
			t.Fatalf("could not encode %v MHz: %+v", freq, err)
		}
		want[i] = cw
	}

	var grp errgroup.Group
	for i := 0; i < 4; i++ {
		for j := range freqs {
			j := j
			grp.Go(func() error {
				cw, err := Encode(freqs[j])
				if err != nil {
					return err
				}
				if cw != want[j] {
					t.Errorf("freq=%v: non deterministic encoding: got=%v, want=%v", freqs[j], cw, want[j])
				}
				return nil
			})
		}
	}
	err := grp.Wait()
	if err != nil {
		t.Fatalf("could not encode: %+v", err)
	}
}

// bruteForce returns the smallest error achievable for freq, using Decode
// as oracle, and whether any valid configuration was found.
//
// The post-divider range is taken from a plain scan of the table and the
// DivSel seed follows the encoder's rounding rule: bruteForce checks that
// Encode finds the best configuration of that search space, not the best
// configuration over every DivSel value.
func bruteForce(freq float64) (float64, bool) {
	var (
		emin  = math.Inf(+1)
		found = false
		posts = PostDividers()
		lo    = -1
		hi    = -1
	)
	for i, post := range posts {
		if i == 1 {
			continue
		}
		if freq*float64(post) < 540.0 {
			lo = i
		}
		if freq*float64(post) < 729.0 {
			hi = i
		}
	}
	lo++

	for ipost := lo; ipost <= hi; ipost++ {
		if ipost == 1 {
			continue
		}
		v := freq * float64(posts[ipost])
		divsel := int(v/RefOsc + 0.8)
		for qp := 1; qp < 32; qp++ {
			for qp1 := 0; qp1 < 32; qp1++ {
				for m := 0; m < 8; m++ {
					for n := 0; n < 8; n++ {
						cw, err := Params{
							Qp: qp, Qp1: qp1, DivSel: divsel,
							PostDivSel: ipost, Ndiv: n, Mdiv: m,
						}.Pack()
						if err != nil {
							continue
						}
						f, err := Decode(cw)
						if err != nil {
							continue
						}
						found = true
						emin = math.Min(emin, math.Abs(f-freq))
					}
				}
			}
		}
	}
	return emin, found
}

func TestRoundTrip(t *testing.T) {
	step := 1.37
	if testing.Short() {
		step = 13.7
	}

	for freq := 10.0; freq < 700; freq += step {
		ref, reachable := bruteForce(freq)

		cw, err := Encode(freq)
		if !reachable {
			if !errors.Is(err, ErrUnreachableFrequency) {
				t.Fatalf("freq=%v: expected unreachable frequency, got cw=%v err=%+v", freq, cw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("could not encode %v MHz: %+v", freq, err)
		}

		got, err := Decode(cw)
		if err != nil {
			t.Fatalf("freq=%v: could not decode %v: %+v", freq, cw, err)
		}
		if diff := math.Abs(got - freq); diff > ref+1e-12 {
			t.Fatalf("freq=%v: error too large: got=%v (err=%v), want err<=%v", freq, got, diff, ref)
		}
	}
}
