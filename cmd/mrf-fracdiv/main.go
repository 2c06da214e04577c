// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// mrf-fracdiv computes the fractional synthesizer control word of MRF
// event generators and receivers for a given event-clock frequency, and
// the event-clock frequency configured by a given control word.
//
// Usage: mrf-fracdiv [OPTIONS] FREQ|CW [FREQ|CW ...]
//
// Example:
//
//	$> mrf-fracdiv 124.9135
//	124.9135 MHz: cw=0x023e4174 freq=124.914092 MHz err=4.737 ppm usec=124
//
//	$> mrf-fracdiv -d 023e4174
//	0x023e4174: freq=124.914092 MHz vco=605.052632 MHz usec=124
//
//	$> mrf-fracdiv -i
//	fracdiv> enc 100
//	100 MHz: cw=0x00820180 freq=100.000000 MHz err=0.000 ppm usec=100
//	fracdiv> quit
package main // import "github.com/go-lpc/mrf/cmd/mrf-fracdiv"

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-lpc/mrf"
	"github.com/go-lpc/mrf/fracdiv"
)

func main() {
	log.SetPrefix("mrf-fracdiv: ")
	log.SetFlags(0)

	var (
		dec   = flag.Bool("d", false, "decode control words instead of encoding frequencies")
		inter = flag.Bool("i", false, "run an interactive shell")
		vers  = flag.Bool("version", false, "print version and exit")
	)

	flag.Usage = func() {
		fmt.Printf(`mrf-fracdiv computes fractional synthesizer control words.

Usage: mrf-fracdiv [OPTIONS] FREQ|CW [FREQ|CW ...]

Frequencies are given in MHz. Control words are given in hexadecimal,
with or without the 0x prefix.

Example:

 $> mrf-fracdiv 124.9135
 124.9135 MHz: cw=0x023e4174 freq=124.914092 MHz err=4.737 ppm usec=124

 $> mrf-fracdiv -d 023e4174
 0x023e4174: freq=124.914092 MHz vco=605.052632 MHz usec=124

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	switch {
	case *vers:
		version, sum := mrf.Version()
		fmt.Printf("mrf-fracdiv version=%q sum=%q\n", version, sum)
		return
	case *inter:
		err := runShell(os.Stdout)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing frequency or control word argument")
	}

	err := process(os.Stdout, flag.Args(), *dec)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func process(w io.Writer, args []string, dec bool) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	for _, arg := range args {
		var err error
		switch {
		case dec:
			err = decode(wbuf, arg)
		default:
			err = encode(wbuf, arg)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func encode(w io.Writer, arg string) error {
	freq, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return fmt.Errorf("could not parse frequency %q: %w", arg, err)
	}

	sol, err := fracdiv.Solve(freq)
	if err != nil {
		return fmt.Errorf("could not encode %v MHz: %w", freq, err)
	}

	usec, err := fracdiv.UsecDiv(sol.Word)
	if err != nil {
		return fmt.Errorf("could not compute usec divider for %v: %w", sol.Word, err)
	}

	fmt.Fprintf(w, "%v MHz: cw=%v freq=%f MHz err=%.3f ppm usec=%d\n",
		freq, sol.Word, sol.Freq, sol.PPM(), usec,
	)
	return nil
}

func decode(w io.Writer, arg string) error {
	cw, err := parseCW(arg)
	if err != nil {
		return err
	}

	freq, err := fracdiv.Decode(cw)
	if err != nil {
		return fmt.Errorf("could not decode %v: %w", cw, err)
	}
	vco, err := fracdiv.VCO(cw)
	if err != nil {
		return fmt.Errorf("could not compute VCO frequency of %v: %w", cw, err)
	}
	usec, err := fracdiv.UsecDiv(cw)
	if err != nil {
		return fmt.Errorf("could not compute usec divider for %v: %w", cw, err)
	}

	fmt.Fprintf(w, "%v: freq=%f MHz vco=%f MHz usec=%d\n", cw, freq, vco, usec)
	return nil
}

func usecDiv(w io.Writer, arg string) error {
	cw, err := parseCW(arg)
	if err != nil {
		return err
	}

	usec, err := fracdiv.UsecDiv(cw)
	if err != nil {
		return fmt.Errorf("could not compute usec divider for %v: %w", cw, err)
	}

	fmt.Fprintf(w, "%v: usec=%d\n", cw, usec)
	return nil
}

func parseCW(arg string) (fracdiv.ControlWord, error) {
	s := strings.ToLower(strings.TrimSpace(arg))
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("could not parse control word %q: %w", arg, err)
	}
	return fracdiv.ControlWord(v), nil
}
