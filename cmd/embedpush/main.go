// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command embedpush is a demo push channel for embedview. It serves
// /ws/{session} and sends every connected viewer a new embedding set
// at a fixed interval: the sets of a data file in turn, or random
// clusters.
package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"cogentcore.org/embedview/base/logx"
	"cogentcore.org/embedview/dataset"
	"cogentcore.org/embedview/points"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "embedpush",
		Usage: "Push embedding sets to embedview sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8080",
				Usage: "Listen address",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Embedding file to push instead of random clusters",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Value: 2 * time.Second,
				Usage: "Time between updates",
			},
			&cli.IntFlag{
				Name:  "count",
				Value: 300,
				Usage: "Points per random set",
			},
			&cli.IntFlag{
				Name:  "clusters",
				Value: 5,
				Usage: "Clusters per random set",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose (info) logging",
			},
		},
		Before: func(c *cli.Context) error {
			logx.UserLevel = logx.LevelFromFlags(false, c.Bool("verbose"), false)
			logx.SetDefaultLogger()
			return nil
		},
		Action: serve,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	p := newPusher(c.Duration("interval"))
	if fn := c.String("data"); fn != "" {
		embs, err := dataset.Load(fn)
		if err != nil {
			return err
		}
		vs := points.Vectors(embs)
		p.Next = func(int) [][]float32 { return vs }
	} else {
		count, clusters := c.Int("count"), c.Int("clusters")
		p.Next = func(i int) [][]float32 { return randomClusters(uint64(i), count, clusters) }
	}
	mux := http.NewServeMux()
	mux.Handle("/ws/{session}", p)
	slog.Warn("embedpush: listening", "addr", c.String("addr"))
	return http.ListenAndServe(c.String("addr"), mux)
}
