// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchemaSource = `
#Layout: {
	attrs:          =~"^\\S+$"
	summary_sig:    string
	entry_prefix?:  string
	read_only:      bool
}
`

var testSchema = NewSchema(testSchemaSource, "#Layout")

type testLayout struct {
	Attrs       string `json:"attrs"`
	SummarySig  string `json:"summary_sig"`
	EntryPrefix string `json:"entry_prefix,omitempty"`
	ReadOnly    bool   `json:"read_only"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
attrs: "attributes.cfg"
summary_sig: "signatures.sha1"
entry_prefix: "entry_"
read_only: true
`)
		got, err := Decode[testLayout](testSchema, data)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		want := testLayout{Attrs: "attributes.cfg", SummarySig: "signatures.sha1", EntryPrefix: "entry_", ReadOnly: true}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("optional field omitted", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
attrs: "attributes.cfg"
summary_sig: "signatures.sha1"
read_only: false
`)
		got, err := Decode[testLayout](testSchema, data)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got.EntryPrefix != "" {
			t.Errorf("expected empty entry_prefix, got %q", got.EntryPrefix)
		}
	})

	t.Run("constraint violation names the field", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
attrs: "two words"
summary_sig: "signatures.sha1"
read_only: false
`)
		_, err := Decode[testLayout](testSchema, data, WithFilename("layout.cue"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "layout.cue") {
			t.Errorf("error should contain filename, got: %v", err)
		}
		if !strings.Contains(err.Error(), "attrs") {
			t.Errorf("error should name the field, got: %v", err)
		}
	})

	t.Run("missing field fails when concrete", func(t *testing.T) {
		t.Parallel()

		data := []byte(`attrs: "attributes.cfg"`)
		if _, err := Decode[testLayout](testSchema, data); err == nil {
			t.Error("expected error for missing required fields")
		}
	})

	t.Run("unknown field is rejected by closed definition", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
attrs: "attributes.cfg"
summary_sig: "signatures.sha1"
read_only: false
colour: "red"
`)
		_, err := Decode[testLayout](testSchema, data)
		if err == nil {
			t.Error("expected error for field not allowed by the definition")
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()

		if _, err := Decode[testLayout](testSchema, []byte(`attrs: `)); err == nil {
			t.Error("expected syntax error")
		}
	})

	t.Run("unknown definition is an internal error", func(t *testing.T) {
		t.Parallel()

		_, err := Decode[testLayout](NewSchema(testSchemaSource, "#Missing"), []byte(`{}`))
		if err == nil || !strings.Contains(err.Error(), "internal error") {
			t.Errorf("expected internal error, got: %v", err)
		}
	})
}

func TestDecode_PartialMap(t *testing.T) {
	t.Parallel()

	const optionalSchema = `
#Config: {
	attrs?:     =~"^\\S+$"
	read_only?: bool
}
`
	data := []byte(`read_only: true`)
	doc, err := Decode[map[string]any](NewSchema(optionalSchema, "#Config"), data, WithConcrete(false))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := doc["read_only"]; got != true {
		t.Errorf("read_only = %v, want true", got)
	}
	if _, ok := doc["attrs"]; ok {
		t.Error("absent optional field should not be decoded")
	}
}

func TestFileSizeLimit(t *testing.T) {
	t.Parallel()

	data := []byte(strings.Repeat("a", 200))
	_, err := Decode[testLayout](testSchema, data, WithMaxFileSize(100))
	if err == nil {
		t.Fatal("expected error for oversized file")
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error should mention size limit, got: %v", err)
	}
}
