// SPDX-License-Identifier: MPL-2.0

// Package export renders loaded bundles as JSON, YAML or TOML documents.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"cgwdict/pkg/bundle"
	"cgwdict/pkg/dictfile"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML with two-space indentation.
	FormatYAML Format = "yaml"
	// FormatTOML is TOML, one [[bundles]] table per bundle.
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for a format other than json, yaml or toml.
var ErrUnknownFormat = errors.New("unknown export format")

type (
	// Format names a document encoding.
	Format string

	// Document is the exported form of one or more bundles.
	Document struct {
		Bundles []BundleDoc `json:"bundles" yaml:"bundles" toml:"bundles"`
	}

	// BundleDoc is one bundle with its dictionaries in display order.
	BundleDoc struct {
		Name      string    `json:"name" yaml:"name" toml:"name"`
		SubmitDir string    `json:"submit_dir" yaml:"submit_dir" toml:"submit_dir"`
		StageDir  string    `json:"stage_dir" yaml:"stage_dir" toml:"stage_dir"`
		Dicts     []DictDoc `json:"dicts" yaml:"dicts" toml:"dicts"`
	}

	// DictDoc is one dictionary with its records in insertion order.
	DictDoc struct {
		Role    string      `json:"role" yaml:"role" toml:"role"`
		Kind    string      `json:"kind" yaml:"kind" toml:"kind"`
		Path    string      `json:"path" yaml:"path" toml:"path"`
		Records []RecordDoc `json:"records" yaml:"records" toml:"records"`
	}

	// RecordDoc holds a plain value or, for multi-column kinds, named fields.
	RecordDoc struct {
		Key    string            `json:"key" yaml:"key" toml:"key"`
		Value  string            `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
		Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
	}

	// Source is a bundle as seen by the exporter.
	Source interface {
		SubmitDir() string
		StageDir() string
		Roles() []bundle.Role
		Dict(role bundle.Role) (dictfile.Dict, bool)
	}

	fielder interface {
		Fields() map[string]string
	}
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	return f == FormatJSON || f == FormatYAML || f == FormatTOML
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// FromBundle builds the document section of one bundle.
func FromBundle(name string, src Source) BundleDoc {
	doc := BundleDoc{
		Name:      name,
		SubmitDir: src.SubmitDir(),
		StageDir:  src.StageDir(),
	}
	for _, role := range src.Roles() {
		d, ok := src.Dict(role)
		if !ok {
			continue
		}
		doc.Dicts = append(doc.Dicts, FromDict(role, d))
	}
	return doc
}

// FromComposite exports the main bundle followed by every entry in name order.
func FromComposite(c *bundle.Composite) *Document {
	doc := &Document{Bundles: []BundleDoc{FromBundle("main", c.Main())}}
	for _, e := range c.Entries() {
		doc.Bundles = append(doc.Bundles, FromBundle(e.Name(), e))
	}
	return doc
}

// FromDict exports a single dictionary recorded under role.
func FromDict(role bundle.Role, d dictfile.Dict) DictDoc {
	records := d.Records()
	doc := DictDoc{
		Role:    role.String(),
		Kind:    d.Kind(),
		Path:    d.Path(),
		Records: make([]RecordDoc, 0, len(records)),
	}
	for _, r := range records {
		doc.Records = append(doc.Records, fromRecord(r))
	}
	return doc
}

func fromRecord(r dictfile.Record) RecordDoc {
	switch v := r.Value.(type) {
	case string:
		return RecordDoc{Key: r.Key, Value: v}
	case fielder:
		fields := v.Fields()
		if len(fields) == 0 {
			return RecordDoc{Key: r.Key}
		}
		return RecordDoc{Key: r.Key, Fields: fields}
	default:
		return RecordDoc{Key: r.Key, Value: fmt.Sprint(v)}
	}
}

// Render writes doc to w in the given format.
func Render(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
