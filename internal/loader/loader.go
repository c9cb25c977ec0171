// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loader reads static mock definitions from a directory at server
// start, the way the "static-mock directory" start option in the wire
// protocol is meant to be populated.
package loader

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vdobler/htmock/internal/wire"
)

// LoadDir walks dir and decodes every *.json, *.yaml or *.yml file into a
// MockDefinition. filepath.WalkDir is stdlib: no example in the retrieved
// corpus pairs a directory walk with anything more specialized than it,
// and the walk itself carries no format-specific logic worth a library.
func LoadDir(dir string) ([]wire.MockDefinition, error) {
	var defs []wire.MockDefinition
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("loader: reading %s: %w", path, err)
		}
		def, err := decode(ext, data)
		if err != nil {
			return fmt.Errorf("loader: decoding %s: %w", path, err)
		}
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func decode(ext string, data []byte) (wire.MockDefinition, error) {
	var def wire.MockDefinition
	var err error
	if ext == ".json" {
		err = json.Unmarshal(data, &def)
	} else {
		err = yaml.Unmarshal(data, &def)
	}
	return def, err
}
