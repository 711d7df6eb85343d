// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// UseColor is whether to color level names in log output.
// Color is only ever emitted when the output is a terminal
// that supports it.
var UseColor = true

// levelColors are the ANSI colors used for each level name.
var levelColors = map[slog.Level]string{
	slog.LevelDebug: "8",
	slog.LevelInfo:  "4",
	slog.LevelWarn:  "3",
	slog.LevelError: "1",
}

// SetDefaultLogger sets the default logger to be a [slog.TextHandler]
// writing to [os.Stderr], with the level set to [UserLevel].
// It should be called once on program start, after [UserLevel] is set.
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, UserLevel)))
}

// NewHandler returns a [slog.TextHandler] writing to w at the given
// level, which colors level names using termenv if [UseColor] is on
// and w is a color-capable terminal.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	out := termenv.NewOutput(w)
	if UseColor && out.Profile != termenv.Ascii {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 || a.Key != slog.LevelKey {
				return a
			}
			lv, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			return slog.String(a.Key, colorLevel(out, lv))
		}
	}
	return slog.NewTextHandler(w, opts)
}

func colorLevel(out *termenv.Output, lv slog.Level) string {
	clr, ok := levelColors[lv]
	if !ok {
		return lv.String()
	}
	st := out.String(lv.String()).Foreground(out.Color(clr))
	if lv >= slog.LevelError {
		st = st.Bold()
	}
	return st.String()
}
