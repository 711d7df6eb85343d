// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration structs for embedview.
// A [Config] starts from [Config.Defaults], is overlaid with a TOML,
// YAML or JSON file by [Open], and finally with command line flags.
package config

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/embedview/base/errors"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for config files with an unsupported extension.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Config is the main config struct that contains all of the
// configuration options for embedview.
type Config struct {

	// Data is the embedding file shown at startup (JSON or YAML).
	Data string `toml:"data" yaml:"data" json:"data"`

	// Normalize min-max scales the startup data into the unit cube.
	Normalize bool `toml:"normalize" yaml:"normalize" json:"normalize"`

	// Session is the push channel session id. Empty disables live updates.
	Session string `toml:"session" yaml:"session" json:"session"`

	// Live configures the push channel.
	Live Live `toml:"live" yaml:"live" json:"live"`

	// Window configures the host window.
	Window Window `toml:"window" yaml:"window" json:"window"`

	// Render configures the render loop and the pipeline.
	Render Render `toml:"render" yaml:"render" json:"render"`
}

// Live configures the push channel.
type Live struct {

	// URL is the WebSocket endpoint; {session} is replaced by the session id.
	URL string `toml:"url" yaml:"url" json:"url"`

	// WatchDir, if set, watches <WatchDir>/<session>.json instead of
	// connecting to URL.
	WatchDir string `toml:"watch_dir" yaml:"watch_dir" json:"watch_dir"`

	// ReconnectAttempts is the number of reconnection attempts after the
	// channel closes; 0 never reconnects.
	ReconnectAttempts int `toml:"reconnect_attempts" yaml:"reconnect_attempts" json:"reconnect_attempts"`

	// ReconnectDelay is the first reconnection delay, doubled on each attempt.
	ReconnectDelay string `toml:"reconnect_delay" yaml:"reconnect_delay" json:"reconnect_delay"`

	// ReconnectMaxDelay caps the reconnection delay.
	ReconnectMaxDelay string `toml:"reconnect_max_delay" yaml:"reconnect_max_delay" json:"reconnect_max_delay"`
}

// Window configures the host window.
type Window struct {
	Width  int    `toml:"width" yaml:"width" json:"width"`
	Height int    `toml:"height" yaml:"height" json:"height"`
	Title  string `toml:"title" yaml:"title" json:"title"`

	// Headless renders offscreen without opening a window.
	Headless bool `toml:"headless" yaml:"headless" json:"headless"`
}

// Render configures the render loop and the pipeline.
type Render struct {

	// AutoRotate starts the loop playing.
	AutoRotate bool `toml:"auto_rotate" yaml:"auto_rotate" json:"auto_rotate"`

	// RotateStep is the auto-rotation per frame in radians.
	RotateStep float32 `toml:"rotate_step" yaml:"rotate_step" json:"rotate_step"`

	// FrameInterval is the frame period, as a Go duration.
	FrameInterval string `toml:"frame_interval" yaml:"frame_interval" json:"frame_interval"`

	// ClearColor is the background as a hex color.
	ClearColor string `toml:"clear_color" yaml:"clear_color" json:"clear_color"`

	// Debug turns on GPU and frame rate logging.
	Debug bool `toml:"debug" yaml:"debug" json:"debug"`
}

// Defaults sets the default values.
func (cf *Config) Defaults() {
	*cf = Config{
		Live: Live{
			URL:               "ws://localhost:8080/ws/{session}",
			ReconnectDelay:    "500ms",
			ReconnectMaxDelay: "10s",
		},
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "Embedding Space",
		},
		Render: Render{
			AutoRotate:    true,
			RotateStep:    0.005,
			FrameInterval: "16ms",
			ClearColor:    "#0c0e16",
		},
	}
}

// New returns a new [Config] with default values.
func New() *Config {
	cf := &Config{}
	cf.Defaults()
	return cf
}

// Open returns the defaults overlaid with the given file. The format
// follows the extension: .toml, or .yaml, .yml and .json.
// A leading ~ in the path is expanded to the home directory.
func Open(path string) (*Config, error) {
	cf := New()
	if err := cf.Open(path); err != nil {
		return nil, err
	}
	return cf, nil
}

// Open overlays cf with the given file.
func (cf *Config) Open(path string) error {
	fpath, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(fpath)
	if err != nil {
		return err
	}
	if err := cf.Decode(data, filepath.Ext(fpath)); err != nil {
		return fmt.Errorf("%s: %w", fpath, err)
	}
	return nil
}

// Decode overlays cf with data in the format given by ext.
func (cf *Config) Decode(data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Unmarshal(data, cf)
	case ".yaml", ".yml", ".json":
		return yaml.Unmarshal(data, cf)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, ext)
}

// Save writes cf to the given file, in the format given by its extension.
func (cf *Config) Save(path string) error {
	fpath, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	var data []byte
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".toml":
		data, err = toml.Marshal(cf)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cf)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, filepath.Ext(fpath))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(fpath, data, 0o644)
}

// DataPath returns Data with a leading ~ expanded.
func (cf *Config) DataPath() (string, error) {
	return homedir.Expand(cf.Data)
}

// Size returns the window size.
func (cf *Config) Size() image.Point {
	return image.Point{cf.Window.Width, cf.Window.Height}
}

// FrameInterval returns the parsed frame period.
func (cf *Config) FrameInterval() (time.Duration, error) {
	return parseDuration("render.frame_interval", cf.Render.FrameInterval)
}

// ReconnectDelays returns the parsed reconnection delays.
func (cf *Config) ReconnectDelays() (base, maxDelay time.Duration, err error) {
	base, err = parseDuration("live.reconnect_delay", cf.Live.ReconnectDelay)
	if err != nil {
		return
	}
	maxDelay, err = parseDuration("live.reconnect_max_delay", cf.Live.ReconnectMaxDelay)
	return
}

// ClearColor returns the parsed background color.
func (cf *Config) ClearColor() (color.RGBA, error) {
	return ParseColor(cf.Render.ClearColor)
}

// Validate checks every field that is parsed later, so that mistakes
// are reported at startup.
func (cf *Config) Validate() error {
	var errs []error
	if cf.Window.Width <= 0 || cf.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: window size %dx%d must be positive", cf.Window.Width, cf.Window.Height))
	}
	if _, err := cf.FrameInterval(); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := cf.ReconnectDelays(); err != nil {
		errs = append(errs, err)
	}
	if _, err := cf.ClearColor(); err != nil {
		errs = append(errs, err)
	}
	if cf.Live.ReconnectAttempts < 0 {
		errs = append(errs, fmt.Errorf("config: live.reconnect_attempts %d is negative", cf.Live.ReconnectAttempts))
	}
	return errors.Join(errs...)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s: negative duration %s", field, s)
	}
	return d, nil
}

// ParseColor parses a #rrggbb hex color, with or without the #.
func ParseColor(s string) (color.RGBA, error) {
	if s != "" && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}
