// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset loads initial embedding sets from JSON or YAML files.
//
// Three shapes are accepted: a document with an "embeddings" list of
// {id, vector, label} objects, the same with an "embeddings" list of bare
// vectors (the push message shape), and a top-level list of either.
package dataset

import (
	"fmt"
	"os"
	"strconv"

	"cogentcore.org/embedview/base/errors"
	"cogentcore.org/embedview/points"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// ErrNoEmbeddings is returned for documents without an embeddings list.
var ErrNoEmbeddings = errors.New("dataset: no embeddings list")

// Load reads the embedding set in the given file. A leading ~ in
// the path is expanded to the home directory.
func Load(path string) ([]points.Embedding, error) {
	fpath, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	embs, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fpath, err)
	}
	return embs, nil
}

// Decode decodes an embedding set from JSON or YAML data.
// Embeddings without an id are given their index as id.
func Decode(data []byte) ([]points.Embedding, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if len(doc.Content) == 0 {
		return []points.Embedding{}, nil
	}
	list := doc.Content[0]
	if list.Kind == yaml.MappingNode {
		list = mapValue(list, "embeddings")
		if list == nil {
			return nil, ErrNoEmbeddings
		}
	}
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("dataset: line %d: embeddings must be a list", list.Line)
	}

	var embs []points.Embedding
	if len(list.Content) > 0 && list.Content[0].Kind == yaml.SequenceNode {
		var vs [][]float32
		if err := list.Decode(&vs); err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		embs = make([]points.Embedding, len(vs))
		for i, v := range vs {
			embs[i].Vector = v
		}
	} else if err := list.Decode(&embs); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if embs == nil {
		embs = []points.Embedding{}
	}
	for i := range embs {
		if embs[i].ID == "" {
			embs[i].ID = strconv.Itoa(i)
		}
	}
	return embs, nil
}

// mapValue returns the value node for key in a mapping node, or nil.
func mapValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
