// SPDX-License-Identifier: MPL-2.0

package dictfile

import (
	"errors"
	"strings"
	"testing"
)

func validVar() Var {
	return Var{Type: VarTypeS, Default: "-", CondorName: "GLIDEIN_Site", Required: FlagNo, Export: FlagYes, UserName: "+"}
}

func TestMalformedLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		parse    func(string) error
		line     string
		expected int
		actual   int
	}{
		{"description one column", func(l string) error { _, _, _, err := DescriptionCodec{}.ParseLine(l); return err }, "attrs_file", 2, 1},
		{"sha1 one column", func(l string) error { _, _, _, err := SHA1Codec{}.ParseLine(l); return err }, "abc", 2, 1},
		{"summary two columns", func(l string) error { _, _, _, err := SummarySHA1Codec{}.ParseLine(l); return err }, "abc file", 3, 2},
		{"subsystem three columns", func(l string) error { _, _, _, err := SubsystemCodec{}.ParseLine(l); return err }, "check wnsub key", 4, 3},
		{"vars six columns", func(l string) error { _, _, _, err := VarsCodec{}.ParseLine(l); return err }, "X S - X N Y", 7, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.parse(tt.line)
			var mlErr *MalformedLineError
			if !errors.As(err, &mlErr) {
				t.Fatalf("ParseLine(%q) error = %v, want *MalformedLineError", tt.line, err)
			}
			if mlErr.Expected != tt.expected || mlErr.Actual != tt.actual {
				t.Errorf("expected/actual = %d/%d, want %d/%d", mlErr.Expected, mlErr.Actual, tt.expected, tt.actual)
			}
			if mlErr.Line != tt.line {
				t.Errorf("Line = %q, want %q", mlErr.Line, tt.line)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error message %q should quote the raw line", err.Error())
			}
		})
	}
}

func TestCodecsSkipComments(t *testing.T) {
	t.Parallel()

	const line = "# a comment with many fields a b c d e f g"
	if _, _, ok, err := (DescriptionCodec{}).ParseLine(line); ok || err != nil {
		t.Errorf("DescriptionCodec ok=%v err=%v", ok, err)
	}
	if _, _, ok, err := (SummarySHA1Codec{}).ParseLine(line); ok || err != nil {
		t.Errorf("SummarySHA1Codec ok=%v err=%v", ok, err)
	}
	if _, _, ok, err := (SubsystemCodec{}).ParseLine(line); ok || err != nil {
		t.Errorf("SubsystemCodec ok=%v err=%v", ok, err)
	}
	if _, _, ok, err := (VarsCodec{}).ParseLine(line); ok || err != nil {
		t.Errorf("VarsCodec ok=%v err=%v", ok, err)
	}
	if _, _, ok, err := (FileListCodec{}).ParseLine(line); ok || err != nil {
		t.Errorf("FileListCodec ok=%v err=%v", ok, err)
	}
}

func TestSHA1Store_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewSHA1(dir, "signature.sha1")
	if err := s.Add("attributes.cfg", "da39a3ee5e6b4b0d3255bfef95601890afd80709"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := readFile(t, dir, "signature.sha1"); got != "da39a3ee5e6b4b0d3255bfef95601890afd80709  attributes.cfg\n" {
		t.Errorf("file = %q", got)
	}

	loaded := NewSHA1(dir, "signature.sha1")
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.Equal(loaded) {
		t.Errorf("round trip mismatch: %v", loaded.Records())
	}
}

func TestSummarySHA1Store(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewSummarySHA1(dir, "signatures.sha1")
	if err := s.Add("main", SummaryHash{Hash: "aaa", Filename: "description.cfg"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("entry_siteA", SummaryHash{Hash: "bbb", Filename: "description.cfg"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("broken", SummaryHash{Hash: "ccc"}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Add() without filename error = %v, want ErrInvalidValue", err)
	}
	if err := s.Add("broken", SummaryHash{Hash: "c c", Filename: "f"}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Add() with whitespace hash error = %v, want ErrInvalidValue", err)
	}

	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := readFile(t, dir, "signatures.sha1"); got != "aaa  description.cfg  main\nbbb  description.cfg  entry_siteA\n" {
		t.Errorf("file = %q", got)
	}

	loaded := NewSummarySHA1(dir, "signatures.sha1")
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, err := loaded.Get("entry_siteA")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Hash != "bbb" || got.Filename != "description.cfg" {
		t.Errorf("Get(entry_siteA) = %+v", got)
	}
}

func TestFileListStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewFileList(dir, "file_list.lst")
	if err := s.Add("bare.sh", FileMeta{}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("setup.sh", Meta("regular exec")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := readFile(t, dir, "file_list.lst"); got != "bare.sh\nsetup.sh regular exec\n" {
		t.Errorf("file = %q", got)
	}

	loaded := NewFileList(dir, "file_list.lst")
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.Equal(loaded, CompareKeys(true)) {
		t.Errorf("round trip mismatch: %v", loaded.Records())
	}
	if m, _ := loaded.Get("bare.sh"); m.Valid {
		t.Errorf("bare.sh metadata = %+v, want absent", m)
	}
}

func TestSubsystemStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewSubsystem(dir, "subsystem_list.lst")
	val := Subsystem{ConfigCheck: "CHECK_VAR", WNSubdir: "wnsub", ConfigOut: "out file"}
	if err := s.Add("sub.tgz", val); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := readFile(t, dir, "subsystem_list.lst"); got != "CHECK_VAR wnsub sub.tgz out file\n" {
		t.Errorf("file = %q", got)
	}

	loaded := NewSubsystem(dir, "subsystem_list.lst")
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, err := loaded.Get("sub.tgz")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != val {
		t.Errorf("Get() = %+v, want %+v", got, val)
	}
}

func TestVarsStore_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mod   func(v *Var)
		field string
	}{
		{"bad type", func(v *Var) { v.Type = "X" }, "type"},
		{"bad required", func(v *Var) { v.Required = "maybe" }, "required"},
		{"bad export", func(v *Var) { v.Export = "y" }, "export"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewVars(t.TempDir(), "condor_vars.lst")
			v := validVar()
			tt.mod(&v)
			err := s.Add("GLIDEIN_Site", v)
			var ivErr *InvalidValueError
			if !errors.As(err, &ivErr) {
				t.Fatalf("Add() error = %v, want *InvalidValueError", err)
			}
			if ivErr.Field != tt.field {
				t.Errorf("InvalidValueError.Field = %q, want %q", ivErr.Field, tt.field)
			}
			if s.Len() != 0 {
				t.Error("rejected Add() must not store the value")
			}
		})
	}
}

func TestVarsStore_Compatibility(t *testing.T) {
	t.Parallel()

	s := NewVars(t.TempDir(), "condor_vars.lst")
	if err := s.Add("GLIDEIN_Site", validVar()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	same := validVar()
	if err := s.Set("GLIDEIN_Site", same); err != nil {
		t.Errorf("Set() identical value error = %v", err)
	}

	newDefault := validVar()
	newDefault.Default = "Unknown"
	newDefault.Required = FlagYes
	if err := s.Set("GLIDEIN_Site", newDefault); err != nil {
		t.Errorf("Set() changing default/required error = %v", err)
	}

	changedType := validVar()
	changedType.Type = VarTypeI
	err := s.Set("GLIDEIN_Site", changedType)
	if !errors.Is(err, ErrIncompatibleValue) {
		t.Errorf("Set() changing type S->I error = %v, want ErrIncompatibleValue", err)
	}

	changedExport := validVar()
	changedExport.Export = FlagNo
	if err := s.Set("GLIDEIN_Site", changedExport); !errors.Is(err, ErrIncompatibleValue) {
		t.Errorf("Set() changing export error = %v, want ErrIncompatibleValue", err)
	}

	if got, _ := s.Get("GLIDEIN_Site"); got != newDefault {
		t.Errorf("Get() = %+v, want %+v", got, newDefault)
	}
}

func TestVarsStore_HeaderRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewVars(dir, "condor_vars.lst")
	if err := s.Add("GLIDEIN_Site", validVar()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	other := Var{Type: VarTypeI, Default: "0", CondorName: "+", Required: FlagYes, Export: FlagNo, UserName: "Glidein User Name"}
	if err := s.Add("GLIDEIN_Max", other); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	content := readFile(t, dir, "condor_vars.lst")
	if !strings.HasPrefix(content, "# VarName") {
		t.Errorf("vars file should start with the column header, got %q", content[:20])
	}
	if !strings.Contains(content, "GLIDEIN_Site \tS \t- \t\tGLIDEIN_Site \tN \tY \t+\n") {
		t.Errorf("vars file missing formatted record:\n%s", content)
	}

	loaded := NewVars(dir, "condor_vars.lst")
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.Equal(loaded, CompareKeys(true)) {
		t.Errorf("round trip mismatch: %v", loaded.Records())
	}
}

func TestValidate_RejectsValuesThatDoNotReadBack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		add  func() error
	}{
		{"plain key starting with hash", func() error { return NewPlain(dir, "a.cfg").Add("#hidden", "v") }},
		{"plain value with newline", func() error { return NewPlain(dir, "a.cfg").Add("multi", "a\nb") }},
		{"plain value with carriage return", func() error { return NewPlain(dir, "a.cfg").Add("cr", "a\r") }},
		{"plain value with leading space", func() error { return NewPlain(dir, "a.cfg").Add("lead", "  spaced") }},
		{"description tag starting with hash", func() error { return NewDescription(dir, "d.cfg").Add("attributes.cfg", "#tag") }},
		{"description filename with newline", func() error { return NewDescription(dir, "d.cfg").Add("a\nb.cfg", "attrs_file") }},
		{"sha1 hash starting with hash", func() error { return NewSHA1(dir, "s.sha1").Add("f.cfg", "#abc") }},
		{"summary key with newline", func() error {
			return NewSummarySHA1(dir, "s.sha1").Add("entry\nx", SummaryHash{Hash: "abc", Filename: "d.cfg"})
		}},
		{"file list key starting with hash", func() error { return NewFileList(dir, "f.lst").Add("#x", FileMeta{}) }},
		{"file list metadata with newline", func() error { return NewFileList(dir, "f.lst").Add("x", Meta("a\nb")) }},
		{"file list empty metadata", func() error { return NewFileList(dir, "f.lst").Add("x", Meta("")) }},
		{"subsystem config check starting with hash", func() error {
			return NewSubsystem(dir, "s.lst").Add("cvmfs", Subsystem{ConfigCheck: "#on", WNSubdir: "d", ConfigOut: "o"})
		}},
		{"subsystem config out with newline", func() error {
			return NewSubsystem(dir, "s.lst").Add("cvmfs", Subsystem{ConfigCheck: "on", WNSubdir: "d", ConfigOut: "o\np"})
		}},
		{"var key starting with hash", func() error { return NewVars(dir, "v.lst").Add("#GLIDEIN_Site", validVar()) }},
		{"var user name with newline", func() error {
			v := validVar()
			v.UserName = "a\nb"
			return NewVars(dir, "v.lst").Add("GLIDEIN_Site", v)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.add(); !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Add() error = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestPlainStore_RoundTripKeepsEveryAcceptedRecord(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewPlain(dir, "attrs.cfg")
	candidates := [][2]string{
		{"#hidden", "v"},
		{"multi", "a\nb"},
		{"lead", "  spaced"},
		{"inner", "a  #b"},
		{"trailing", "x "},
	}
	for _, p := range candidates {
		_ = s.Add(p[0], p[1])
	}
	if got := s.Keys(); len(got) != 2 {
		t.Fatalf("Keys() = %v, want only the readable records", got)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := NewPlain(dir, "attrs.cfg")
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.Equal(loaded, CompareKeys(true)) {
		t.Errorf("round trip mismatch: saved %v, loaded %v", s.Records(), loaded.Records())
	}
}

func TestDescriptionStore_RoundTripWithSpacedFilename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewDescription(dir, "description.cfg")
	if err := s.Add("my attrs.cfg", "attrs_file"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := NewDescription(dir, "description.cfg")
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", loaded.Len())
	}
	if key, err := loaded.LookupByValue("attrs_file"); err != nil || key != "my attrs.cfg" {
		t.Errorf("LookupByValue() = %q, %v, want %q", key, err, "my attrs.cfg")
	}
}
