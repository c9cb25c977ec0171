// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reccodec encodes and decodes the portable recording document
// exchanged at GET/POST /__httpmock__/recordings. The wire protocol names
// YAML as the canonical serialization but accepts plain JSON transparently,
// since JSON is a subset of YAML's flow style.
package reccodec

import (
	"gopkg.in/yaml.v3"

	"github.com/vdobler/htmock/internal/wire"
)

// Encode renders doc as a YAML document.
func Encode(doc wire.RecordedDocument) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, &wire.DataConversionError{Err: err}
	}
	return data, nil
}

// Decode parses a previously exported document. It accepts both the YAML
// form Encode produces and raw JSON, since yaml.v3 parses JSON natively.
func Decode(content []byte) (wire.RecordedDocument, error) {
	var doc wire.RecordedDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return wire.RecordedDocument{}, &wire.DataConversionError{Err: err}
	}
	return doc, nil
}
