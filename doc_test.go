// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrf

import (
	"runtime/debug"
	"testing"
)

func TestVersionOf(t *testing.T) {
	for _, tc := range []struct {
		name    string
		info    *debug.BuildInfo
		version string
		sum     string
	}{
		{
			name: "nil",
		},
		{
			name: "main",
			info: &debug.BuildInfo{
				Main: debug.Module{Path: "github.com/go-lpc/mrf", Version: "v0.2.0", Sum: "h1:main"},
			},
			version: "v0.2.0",
			sum:     "h1:main",
		},
		{
			name: "dep",
			info: &debug.BuildInfo{
				Main: debug.Module{Path: "example.org/daq"},
				Deps: []*debug.Module{
					{Path: "golang.org/x/sync", Version: "v0.1.0"},
					{Path: "github.com/go-lpc/mrf", Version: "v0.1.0", Sum: "h1:dep"},
				},
			},
			version: "v0.1.0",
			sum:     "h1:dep",
		},
		{
			name: "replace-path-version",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path: "github.com/go-lpc/mrf", Version: "v0.1.0",
					Replace: &debug.Module{Path: "example.org/mrf", Version: "v0.1.1", Sum: "h1:repl"},
				}},
			},
			version: "example.org/mrf v0.1.1",
			sum:     "h1:repl",
		},
		{
			name: "replace-local",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path: "github.com/go-lpc/mrf", Version: "v0.1.0",
					Replace: &debug.Module{},
				}},
			},
			version: "v0.1.0*",
		},
		{
			name: "missing",
			info: &debug.BuildInfo{
				Main: debug.Module{Path: "example.org/daq"},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			version, sum := versionOf(tc.info)
			if version != tc.version {
				t.Fatalf("invalid version: got=%q, want=%q", version, tc.version)
			}
			if sum != tc.sum {
				t.Fatalf("invalid sum: got=%q, want=%q", sum, tc.sum)
			}
		})
	}
}
