// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/embedview/config"
	"cogentcore.org/embedview/live"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// testContext returns a cli context for the app flags parsed from args.
func testContext(t *testing.T, args ...string) *cli.Context {
	app := newApp()
	set := flag.NewFlagSet("embedview", flag.ContinueOnError)
	for _, f := range app.Flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(app, set, nil)
}

func TestLoadConfigDefaults(t *testing.T) {
	cf, err := loadConfig(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, config.New(), cf)
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(fn, []byte("session = \"file\"\n[window]\nwidth = 640\n"), 0o644))
	cf, err := loadConfig(testContext(t, "--config", fn, "--session", "flag", "--paused", "--reconnect", "3"))
	require.NoError(t, err)
	assert.Equal(t, "flag", cf.Session)
	assert.Equal(t, 640, cf.Window.Width)
	assert.False(t, cf.Render.AutoRotate)
	assert.Equal(t, 3, cf.Live.ReconnectAttempts)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := loadConfig(testContext(t, "--width", "0"))
	assert.Error(t, err)
	_, err = loadConfig(testContext(t, "--config", filepath.Join(t.TempDir(), "none.toml")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptions(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "set.json")
	require.NoError(t, os.WriteFile(fn, []byte(`{"embeddings": [`+
		`{"id": "a", "vector": [0, 0, 0], "label": "alpha"}, `+
		`{"id": "b", "vector": [2, 4, 8], "label": "beta"}]}`), 0o644))
	cf := config.New()
	cf.Data = fn
	cf.Normalize = true
	opts, err := options(cf)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 0, 0}, {1, 1, 1}}, opts.Embeddings)
	assert.Equal(t, []string{"alpha", "beta"}, opts.Labels)
	assert.True(t, opts.AutoRotate)

	cf.Data = filepath.Join(t.TempDir(), "missing.json")
	_, err = options(cf)
	assert.Error(t, err)
}

func TestSource(t *testing.T) {
	cf := config.New()
	src, err := source(cf)
	require.NoError(t, err)
	assert.Nil(t, src, "no session, no source")

	cf.Session = "s1"
	cf.Live.ReconnectAttempts = 2
	src, err = source(cf)
	require.NoError(t, err)
	ws, ok := src.(*live.WebSocketSource)
	require.True(t, ok)
	assert.Equal(t, 2, ws.Reconnect.MaxAttempts)
	assert.Equal(t, "ws://localhost:8080/ws/s1", ws.SessionURL("s1"))

	cf.Live.WatchDir = t.TempDir()
	src, err = source(cf)
	require.NoError(t, err)
	assert.IsType(t, &live.FileSource{}, src)
}

func TestPrintLabels(t *testing.T) {
	var b bytes.Buffer
	printLabels(&b, "Embedding Space", []string{"alpha", "beta"})
	assert.Equal(t, "Embedding Space\n 1  alpha\n 2  beta\n", b.String())
}

func TestWindowTitle(t *testing.T) {
	assert.Equal(t, "Embedding Space", windowTitle("Embedding Space", nil))
	assert.Equal(t, "Embedding Space: alpha, beta", windowTitle("Embedding Space", []string{"alpha", "beta"}))
}
