// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema
// definition and decodes them into Go values.
//
//	//go:embed config_schema.cue
//	var configSchema string
//
//	doc, err := cueutil.Decode[map[string]any](
//	    cueutil.NewSchema(configSchema, "#Config"),
//	    data,
//	    cueutil.WithFilename(path),
//	    cueutil.WithConcrete(false),
//	)
//	if err != nil {
//	    return err // "<file>: <cue path>: <message>"
//	}
package cueutil
