// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diffreport renders a ClosestMatch as the human-readable report a
// failing verify() produces on the command line, following vdobler/ht's
// habit of colouring expected/actual pairs with mgutz/ansi and falling back
// to kr/pretty for anything structural.
package diffreport

import (
	"fmt"
	"strings"

	"github.com/kr/pretty"
	"github.com/mgutz/ansi"

	"github.com/vdobler/htmock/internal/wire"
)

// Mode controls whether colour escapes are emitted.
type Mode int

const (
	// ModeAuto enables colour only when the renderer is told output is a
	// terminal (see Render's isTTY argument).
	ModeAuto Mode = iota
	ModeAlways
	ModeNever
)

// Render formats cm as a multi-line diagnostic report.
func Render(cm wire.ClosestMatch, mode Mode, isTTY bool) string {
	color := mode == ModeAlways || (mode == ModeAuto && isTTY)

	paint := func(style, s string) string {
		if !color {
			return s
		}
		return ansi.Color(s, style)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", paint("red+b", "closest match:"), paint("cyan", cm.Request.Method), paint("cyan", cm.Request.Path))
	fmt.Fprintf(&b, "  %s %d\n", paint("black+h", "distance:"), cm.Distance)

	for _, m := range cm.Mismatches {
		fmt.Fprintf(&b, "  %s %s.%s\n", paint("yellow", "mismatch:"), m.Matcher, m.Constraint)
		if m.Expected != "" {
			fmt.Fprintf(&b, "    %s %s\n", paint("green", "expected:"), m.Expected)
		}
		if m.Actual != "" {
			fmt.Fprintf(&b, "    %s %s\n", paint("red", "actual:  "), m.Actual)
		}
		if m.BestMatch {
			fmt.Fprintf(&b, "    %s %s=%s\n", paint("black+h", "best match pair:"), m.BestMatchKey, m.BestMatchValue)
		}
	}

	fmt.Fprintf(&b, "  %s\n    %s\n", paint("black+h", "request snapshot:"), indent(fmt.Sprintf("%# v", pretty.Formatter(cm.Request))))
	return b.String()
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
