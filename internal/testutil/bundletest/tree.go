// SPDX-License-Identifier: MPL-2.0

package bundletest

import (
	"path/filepath"
	"strings"
	"testing"

	"cgwdict/internal/testutil"
	"cgwdict/pkg/naming"

	"golang.org/x/exp/slices"
)

// Description tags, in the order they are written.
var tags = []string{"signature", "attrs_file", "consts_file", "condor_vars", "file_list", "script_list", "subsystem_list"}

type (
	// Spec describes the files of one bundle.
	// Apply options to customize beyond the minimal defaults.
	Spec struct {
		lines     map[string][]string
		filenames map[string]string
		params    []string
		omitted   map[string]bool
	}

	// Option configures a Spec.
	Option func(*Spec)
)

// NewSpec creates a bundle spec. By default every role file exists and is
// empty, with the default layout filenames.
//
// Usage:
//
//	main := bundletest.NewSpec(bundletest.WithAttr("GLIDEIN_Site", "X"))
//	bundletest.WriteTree(t, submitDir, stageDir, main, map[string]*bundletest.Spec{
//	    "siteA": bundletest.NewSpec(),
//	})
func NewSpec(opts ...Option) *Spec {
	l := naming.DefaultLayout()
	s := &Spec{
		lines: make(map[string][]string),
		filenames: map[string]string{
			"signature":      l.Signature,
			"attrs_file":     l.Attrs,
			"consts_file":    l.Consts,
			"condor_vars":    l.Vars,
			"file_list":      l.FileList,
			"script_list":    l.ScriptList,
			"subsystem_list": l.SubsystemList,
		},
		omitted: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Options ---

// WithAttr appends an attribute record.
func WithAttr(key, value string) Option {
	return WithLine("attrs_file", key+" \t"+value)
}

// WithConst appends a constant record.
func WithConst(key, value string) Option {
	return WithLine("consts_file", key+" \t"+value)
}

// WithParam appends a parameter record.
func WithParam(key, value string) Option {
	return func(s *Spec) {
		s.params = append(s.params, key+" \t"+value)
	}
}

// WithLine appends a raw line to the file recorded under tag.
func WithLine(tag, line string) Option {
	return func(s *Spec) {
		s.lines[tag] = append(s.lines[tag], line)
	}
}

// WithFilename stores the file recorded under tag as name.
func WithFilename(tag, name string) Option {
	return func(s *Spec) {
		s.filenames[tag] = name
	}
}

// WithoutTag leaves tag out of the description.
func WithoutTag(tag string) Option {
	return func(s *Spec) {
		s.omitted[tag] = true
	}
}

// WriteTree writes main and entries under the given directories with the
// default layout, plus a summary signature listing all of them. Digests in
// the summary signature are placeholders.
func WriteTree(t testing.TB, submitDir, stageDir string, main *Spec, entries map[string]*Spec) {
	t.Helper()
	l := naming.DefaultLayout()

	summary := []string{"0  " + l.Description + "  " + naming.MainTag}
	main.write(t, submitDir, stageDir, l)

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		entries[name].write(t, l.EntrySubmitDir(submitDir, name), l.EntryStageDir(stageDir, name), l)
		summary = append(summary, "0  "+l.Description+"  "+l.EntryTag(name))
	}

	testutil.MustWriteFile(t, filepath.Join(submitDir, l.SummarySignature), joinLines(summary))
}

func (s *Spec) write(t testing.TB, submitDir, stageDir string, l naming.Layout) {
	t.Helper()

	var desc []string
	for _, tag := range tags {
		fname := s.filenames[tag]
		testutil.MustWriteFile(t, filepath.Join(stageDir, fname), joinLines(s.lines[tag]))
		if !s.omitted[tag] {
			desc = append(desc, tag+" \t"+fname)
		}
	}
	testutil.MustWriteFile(t, filepath.Join(stageDir, l.Description), joinLines(desc))
	testutil.MustWriteFile(t, filepath.Join(submitDir, l.Params), joinLines(s.params))
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
