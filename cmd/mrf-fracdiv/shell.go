// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
)

const shellHelp = `commands:
  enc FREQ [FREQ...]  compute the control word for FREQ (MHz)
  dec CW [CW...]      compute the frequency configured by CW (hex)
  usec CW [CW...]     compute the microsecond divider matching CW (hex)
  help                display this help
  quit                leave the shell
`

var (
	errorf = color.New(color.FgRed).SprintfFunc()
	infof  = color.New(color.FgCyan).SprintfFunc()
)

func runShell(w io.Writer) error {
	term := liner.NewLiner()
	defer term.Close()

	term.SetCtrlCAborts(true)
	term.SetCompleter(func(line string) []string {
		var cmds []string
		for _, cmd := range []string{"enc ", "dec ", "usec ", "help", "quit"} {
			if strings.HasPrefix(cmd, line) {
				cmds = append(cmds, cmd)
			}
		}
		return cmds
	})

	fmt.Fprint(w, infof("type 'help' for the list of commands.\n"))
	for {
		line, err := term.Prompt("fracdiv> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(w)
				return nil
			}
			return fmt.Errorf("could not read command: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		term.AppendHistory(line)

		if quit := execute(w, line); quit {
			return nil
		}
	}
}

// execute runs one shell command. It returns true when the shell should
// terminate.
func execute(w io.Writer, line string) bool {
	toks := strings.Fields(line)
	if len(toks) == 0 {
		return false
	}

	var err error
	switch cmd, args := toks[0], toks[1:]; cmd {
	case "quit", "exit", "q":
		return true
	case "help", "h", "?":
		fmt.Fprint(w, shellHelp)
		return false
	case "enc", "e":
		err = shellRun(w, args, false)
	case "dec", "d":
		err = shellRun(w, args, true)
	case "usec", "u":
		err = shellUsec(w, args)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		fmt.Fprintln(w, errorf("error: %+v", err))
	}
	return false
}

func shellRun(w io.Writer, args []string, dec bool) error {
	if len(args) == 0 {
		return fmt.Errorf("missing argument")
	}
	for _, arg := range args {
		err := process(w, []string{arg}, dec)
		if err != nil {
			fmt.Fprintln(w, errorf("error: %+v", err))
		}
	}
	return nil
}

func shellUsec(w io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing argument")
	}
	for _, arg := range args {
		err := usecDiv(w, arg)
		if err != nil {
			fmt.Fprintln(w, errorf("error: %+v", err))
		}
	}
	return nil
}
