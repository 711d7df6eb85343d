// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"cogentcore.org/embedview/base/logx"
	"github.com/muesli/termenv"
)

// printLabels writes the overlay: the title and the given labels,
// one per line, styled when w is a color terminal.
func printLabels(w io.Writer, title string, labels []string) {
	out := termenv.NewOutput(w)
	color := logx.UseColor && out.Profile != termenv.Ascii
	head := title
	if color {
		head = out.String(title).Bold().String()
	}
	fmt.Fprintln(w, head)
	if len(labels) == 0 {
		return
	}
	for i, l := range labels {
		num := fmt.Sprintf("%2d", i+1)
		if color {
			num = out.String(num).Faint().String()
		}
		fmt.Fprintf(w, "%s  %s\n", num, l)
	}
}

// windowTitle returns title followed by the labels, for the window
// title bar.
func windowTitle(title string, labels []string) string {
	if len(labels) == 0 {
		return title
	}
	return title + ": " + strings.Join(labels, ", ")
}
