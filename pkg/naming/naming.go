// SPDX-License-Identifier: MPL-2.0

// Package naming maps bundle roles to filenames and entry names to directories.
//
// A Layout is the single source of truth for every filename used by a bundle.
// Entry bundles live in "<prefix><name>" subdirectories of the main submission
// and staging directories; the same string is the tag under which an entry's
// description is recorded in the main summary signature.
package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const (
	// DefaultEntryPrefix is the subdirectory prefix of entry bundles.
	DefaultEntryPrefix = "entry_"
	// MainTag is the summary signature key of the main bundle.
	MainTag = "main"
)

var (
	// ErrInvalidLayout is returned when a Layout fails validation.
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrInvalidEntryName is returned when an entry name cannot map to a directory.
	ErrInvalidEntryName = errors.New("invalid entry name")
	// ErrNotEntryTag is returned when a summary signature key does not carry the entry prefix.
	ErrNotEntryTag = errors.New("not an entry tag")

	// entryNameRegex accepts names that are safe as a single path element.
	entryNameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.@+-]*$`)
)

type (
	// Layout holds the filenames of every bundle role and the entry prefix.
	Layout struct {
		Attrs            string `json:"attrs" yaml:"attrs" toml:"attrs" mapstructure:"attrs"`
		Description      string `json:"description" yaml:"description" toml:"description" mapstructure:"description"`
		Consts           string `json:"consts" yaml:"consts" toml:"consts" mapstructure:"consts"`
		Params           string `json:"params" yaml:"params" toml:"params" mapstructure:"params"`
		Vars             string `json:"vars" yaml:"vars" toml:"vars" mapstructure:"vars"`
		FileList         string `json:"file_list" yaml:"file_list" toml:"file_list" mapstructure:"file_list"`
		ScriptList       string `json:"script_list" yaml:"script_list" toml:"script_list" mapstructure:"script_list"`
		SubsystemList    string `json:"subsystem_list" yaml:"subsystem_list" toml:"subsystem_list" mapstructure:"subsystem_list"`
		Signature        string `json:"signature" yaml:"signature" toml:"signature" mapstructure:"signature"`
		SummarySignature string `json:"summary_signature" yaml:"summary_signature" toml:"summary_signature" mapstructure:"summary_signature"`
		EntryPrefix      string `json:"entry_prefix" yaml:"entry_prefix" toml:"entry_prefix" mapstructure:"entry_prefix"`
	}

	// LayoutError describes why a Layout is invalid.
	// It wraps ErrInvalidLayout for errors.Is() compatibility.
	LayoutError struct {
		Field  string
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidLayout so callers can use errors.Is for classification.
func (e *LayoutError) Unwrap() error { return ErrInvalidLayout }

// DefaultLayout returns the standard glidein filenames.
func DefaultLayout() Layout {
	return Layout{
		Attrs:            "attributes.cfg",
		Description:      "description.cfg",
		Consts:           "constants.cfg",
		Params:           "params.cfg",
		Vars:             "condor_vars.lst",
		FileList:         "file_list.lst",
		ScriptList:       "script_list.lst",
		SubsystemList:    "subsystem_list.lst",
		Signature:        "signature.sha1",
		SummarySignature: "signatures.sha1",
		EntryPrefix:      DefaultEntryPrefix,
	}
}

// WithDefaults returns a copy of l where every empty field takes its default.
func (l Layout) WithDefaults() Layout {
	d := DefaultLayout()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&l.Attrs, d.Attrs)
	fill(&l.Description, d.Description)
	fill(&l.Consts, d.Consts)
	fill(&l.Params, d.Params)
	fill(&l.Vars, d.Vars)
	fill(&l.FileList, d.FileList)
	fill(&l.ScriptList, d.ScriptList)
	fill(&l.SubsystemList, d.SubsystemList)
	fill(&l.Signature, d.Signature)
	fill(&l.SummarySignature, d.SummarySignature)
	fill(&l.EntryPrefix, d.EntryPrefix)
	return l
}

// Filenames returns the role filenames in a stable order, keyed by field name.
func (l Layout) Filenames() [][2]string {
	return [][2]string{
		{"attrs", l.Attrs},
		{"description", l.Description},
		{"consts", l.Consts},
		{"params", l.Params},
		{"vars", l.Vars},
		{"file_list", l.FileList},
		{"script_list", l.ScriptList},
		{"subsystem_list", l.SubsystemList},
		{"signature", l.Signature},
		{"summary_signature", l.SummarySignature},
	}
}

// Validate checks that every filename is a usable, unique single path element
// and that the entry prefix is set.
func (l Layout) Validate() error {
	seen := make(map[string]string)
	for _, f := range l.Filenames() {
		field, name := f[0], f[1]
		if reason := checkPathElement(name); reason != "" {
			return &LayoutError{Field: field, Value: name, Reason: reason}
		}
		if prev, dup := seen[name]; dup {
			return &LayoutError{Field: field, Value: name, Reason: "already used by " + prev}
		}
		seen[name] = field
	}
	if l.EntryPrefix == "" {
		return &LayoutError{Field: "entry_prefix", Value: l.EntryPrefix, Reason: "must not be empty"}
	}
	if reason := checkPathElement(l.EntryPrefix); reason != "" {
		return &LayoutError{Field: "entry_prefix", Value: l.EntryPrefix, Reason: reason}
	}
	return nil
}

// EntryTag returns the summary signature key of an entry.
func (l Layout) EntryTag(name string) string {
	return l.EntryPrefix + name
}

// EntryNameFromTag reverses EntryTag.
func (l Layout) EntryNameFromTag(tag string) (string, error) {
	name, ok := strings.CutPrefix(tag, l.EntryPrefix)
	if !ok || name == "" {
		return "", fmt.Errorf("%w: %q (expected prefix %q)", ErrNotEntryTag, tag, l.EntryPrefix)
	}
	return name, nil
}

// EntrySubmitDir returns the submission directory of an entry.
func (l Layout) EntrySubmitDir(submitDir, name string) string {
	return entryDir(submitDir, l.EntryTag(name))
}

// EntryStageDir returns the staging directory of an entry. With an empty base
// it returns the bare tag, as used for summary signature keys.
func (l Layout) EntryStageDir(stageDir, name string) string {
	return entryDir(stageDir, l.EntryTag(name))
}

func entryDir(base, tag string) string {
	if base == "" {
		return tag
	}
	return filepath.Join(base, tag)
}

// ValidateEntryName checks that name maps to exactly one directory level.
func ValidateEntryName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidEntryName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidEntryName, name)
	case !entryNameRegex.MatchString(name):
		return fmt.Errorf("%w: %q must start with a letter, digit or underscore and contain no whitespace or path separators", ErrInvalidEntryName, name)
	}
	return nil
}

// checkPathElement returns why name is not a single, plain path element, or "".
func checkPathElement(name string) string {
	switch {
	case name == "":
		return "must not be empty"
	case strings.ContainsFunc(name, unicode.IsSpace):
		return "must not contain whitespace"
	case strings.ContainsAny(name, `/\`):
		return "must not contain path separators"
	case name == "." || name == "..":
		return "is reserved"
	}
	return ""
}
