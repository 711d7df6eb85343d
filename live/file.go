// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileSource is a [Source] that watches a directory and delivers the
// contents of <session>.json each time it is written or created.
// Writers should replace the file atomically (write then rename), as
// a partially written file is delivered, rejected and logged.
type FileSource struct {

	// Dir is the watched directory.
	Dir string

	// Initial delivers the current file contents, if any, on Subscribe.
	Initial bool
}

// NewFileSource returns a new [FileSource] watching dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

// SessionFile returns the file watched for the given session.
func (fs *FileSource) SessionFile(session string) string {
	return filepath.Join(fs.Dir, session+".json")
}

func (fs *FileSource) Subscribe(ctx context.Context, sessionID string, onMessage func(msg []byte)) (func(), error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}
	if strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return nil, fmt.Errorf("live: invalid session id %q for file source", sessionID)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("live: file watcher: %w", err)
	}
	if err := w.Add(fs.Dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("live: watch %s: %w", fs.Dir, err)
	}
	fname := filepath.Clean(fs.SessionFile(sessionID))
	if fs.Initial {
		if data, err := os.ReadFile(fname); err == nil && len(data) > 0 {
			onMessage(data)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != fname || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				data, err := os.ReadFile(fname)
				if err != nil {
					slog.Warn("live: reading session file", "file", fname, "err", err)
					continue
				}
				if len(data) == 0 {
					continue
				}
				onMessage(data)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("live: file watcher", "dir", fs.Dir, "err", err)
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
			w.Close()
		})
	}, nil
}
