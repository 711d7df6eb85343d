// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command embedview shows a set of embeddings as an interactive,
// rotating 3D point cloud, optionally replaced live from a push channel.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"cogentcore.org/embedview/base/logx"
	"cogentcore.org/embedview/config"
	"cogentcore.org/embedview/dataset"
	"cogentcore.org/embedview/gpu"
	"cogentcore.org/embedview/live"
	"cogentcore.org/embedview/points"
	"cogentcore.org/embedview/viewer"
	"github.com/urfave/cli/v2"
)

func init() {
	// glfw and the GPU must be driven from the main thread
	runtime.LockOSThread()
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "embedview",
		Usage: "Interactive 3D point cloud of embeddings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file (.toml, .yaml, .yml or .json)",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Embedding file to show at startup (JSON or YAML)",
			},
			&cli.BoolFlag{
				Name:  "normalize",
				Usage: "Min-max scale the startup data into the unit cube",
			},
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Session id of the push channel; empty disables live updates",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "WebSocket endpoint, with {session} standing for the session id",
			},
			&cli.StringFlag{
				Name:  "watch",
				Usage: "Watch <dir>/<session>.json instead of connecting to --url",
			},
			&cli.IntFlag{
				Name:  "reconnect",
				Usage: "Reconnection attempts after the push channel closes",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "Window width",
			},
			&cli.IntFlag{
				Name:  "height",
				Usage: "Window height",
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "Render offscreen without opening a window",
			},
			&cli.BoolFlag{
				Name:  "paused",
				Usage: "Start with auto-rotation off",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log GPU resource and frame rate details",
			},
			&cli.BoolFlag{
				Name:  "vv",
				Usage: "Very verbose (debug) logging",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose (info) logging",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
		},
		Before: setupLogger,
		Action: run,
		Commands: []*cli.Command{
			{
				Name:      "init-config",
				Usage:     "Write the default configuration to a file",
				ArgsUsage: "<file.toml|file.yaml>",
				Action:    initConfig,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	logx.UserLevel = logx.LevelFromFlags(c.Bool("vv"), c.Bool("verbose"), c.Bool("quiet"))
	logx.SetDefaultLogger()
	return nil
}

// loadConfig returns the defaults, overlaid with the config file and
// then with every flag given on the command line.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cf := config.New()
	if fn := c.String("config"); fn != "" {
		if err := cf.Open(fn); err != nil {
			return nil, err
		}
	}
	if c.IsSet("data") {
		cf.Data = c.String("data")
	}
	if c.IsSet("normalize") {
		cf.Normalize = c.Bool("normalize")
	}
	if c.IsSet("session") {
		cf.Session = c.String("session")
	}
	if c.IsSet("url") {
		cf.Live.URL = c.String("url")
	}
	if c.IsSet("watch") {
		cf.Live.WatchDir = c.String("watch")
	}
	if c.IsSet("reconnect") {
		cf.Live.ReconnectAttempts = c.Int("reconnect")
	}
	if c.IsSet("width") {
		cf.Window.Width = c.Int("width")
	}
	if c.IsSet("height") {
		cf.Window.Height = c.Int("height")
	}
	if c.IsSet("headless") {
		cf.Window.Headless = c.Bool("headless")
	}
	if c.IsSet("paused") {
		cf.Render.AutoRotate = !c.Bool("paused")
	}
	if c.IsSet("debug") {
		cf.Render.Debug = c.Bool("debug")
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func initConfig(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowSubcommandHelp(c)
	}
	return config.New().Save(c.Args().First())
}

// options builds the viewer options from cf, loading the startup data.
func options(cf *config.Config) (viewer.Options, error) {
	opts := viewer.DefaultOptions()
	opts.SessionID = cf.Session
	opts.AutoRotate = cf.Render.AutoRotate
	opts.Size = cf.Size()
	opts.RotateStep = cf.Render.RotateStep
	fi, err := cf.FrameInterval()
	if err != nil {
		return opts, err
	}
	opts.FrameInterval = fi
	if cf.Data == "" {
		return opts, nil
	}
	fpath, err := cf.DataPath()
	if err != nil {
		return opts, err
	}
	embs, err := dataset.Load(fpath)
	if err != nil {
		return opts, err
	}
	opts.Embeddings = points.Vectors(embs)
	if cf.Normalize {
		opts.Embeddings = dataset.Normalize(opts.Embeddings)
	}
	opts.Labels = points.Labels(embs)
	slog.Info("loaded embeddings", "file", fpath, "count", len(embs))
	return opts, nil
}

// source returns the push channel source configured in cf,
// or nil when there is no session.
func source(cf *config.Config) (live.Source, error) {
	if cf.Session == "" {
		return nil, nil
	}
	if cf.Live.WatchDir != "" {
		return live.NewFileSource(cf.Live.WatchDir), nil
	}
	ws := live.NewWebSocketSource(cf.Live.URL)
	base, maxDelay, err := cf.ReconnectDelays()
	if err != nil {
		return nil, err
	}
	ws.Reconnect = live.Reconnect{
		MaxAttempts: cf.Live.ReconnectAttempts,
		BaseDelay:   base,
		MaxDelay:    maxDelay,
	}
	return ws, nil
}

func run(c *cli.Context) error {
	cf, err := loadConfig(c)
	if err != nil {
		return err
	}
	gpu.Debug = cf.Render.Debug
	opts, err := options(cf)
	if err != nil {
		return err
	}
	src, err := source(cf)
	if err != nil {
		return err
	}
	bg, err := cf.ClearColor()
	if err != nil {
		return err
	}

	var h host
	if cf.Window.Headless {
		h = newHeadlessHost()
	} else {
		h, err = newWindowHost(opts.Size, cf.Window.Title)
		if err != nil {
			return fmt.Errorf("%w (use --headless to render offscreen)", err)
		}
	}
	defer h.Close()
	be := h.Backend()
	be.ClearColor = bg

	v := viewer.New(opts, be, src)
	defer v.Dispose()
	if err := v.Init(); err != nil {
		return err
	}
	h.Attach(v)
	v.Loop.Poll = h.Poll
	printLabels(os.Stdout, cf.Window.Title, v.Labels())
	h.SetTitle(windowTitle(cf.Window.Title, v.Labels()))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()
	err = v.Run(ctx)
	slog.Info("embedview: done", "frames", v.Renderer.Frames())
	if err == context.Canceled {
		return nil
	}
	return err
}
