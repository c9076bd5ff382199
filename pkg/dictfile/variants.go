// SPDX-License-Identifier: MPL-2.0

package dictfile

import "fmt"

const (
	// VarTypeC is a plain (unquoted) condor value.
	VarTypeC VarType = "C"
	// VarTypeS is a string value quoted on export.
	VarTypeS VarType = "S"
	// VarTypeI is an integer value.
	VarTypeI VarType = "I"

	// FlagYes enables Required or Export.
	FlagYes Flag = "Y"
	// FlagNo disables Required or Export.
	FlagNo Flag = "N"
)

// varsHeader documents the columns of a condor vars file.
const varsHeader = "# VarName               Type    Default         CondorName                     Req.     Export  UserName           \n" +
	"#                       S=Quote - = No Default  + = VarName                             Condor   - = Do not export \n" +
	"#                                                                                                + = Use VarName   \n" +
	"#                                                                                                @ = Use CondorName\n" +
	"###################################################################################################################"

type (
	// DescriptionCodec stores "value key" lines: the forward key (a filename)
	// is the last column and may contain whitespace, the value is a role tag.
	DescriptionCodec struct{}

	// SHA1Codec stores "hash key" lines.
	SHA1Codec struct{}

	// SummaryHash is the value of a summary signature record.
	SummaryHash struct {
		Hash     string `json:"hash" yaml:"hash" toml:"hash"`
		Filename string `json:"filename" yaml:"filename" toml:"filename"`
	}

	// SummarySHA1Codec stores "hash filename key" lines.
	SummarySHA1Codec struct{}

	// FileMeta is the optional metadata of a file list record.
	FileMeta struct {
		Value string
		Valid bool
	}

	// FileListCodec stores "key [metadata]" lines.
	FileListCodec struct{}

	// Subsystem is the value of a subsystem record.
	Subsystem struct {
		ConfigCheck string `json:"config_check" yaml:"config_check" toml:"config_check"`
		WNSubdir    string `json:"wn_subdir" yaml:"wn_subdir" toml:"wn_subdir"`
		ConfigOut   string `json:"config_out" yaml:"config_out" toml:"config_out"`
	}

	// SubsystemCodec stores "configCheck wnSubdir key configOut" lines.
	SubsystemCodec struct{}

	// VarType is the declared type of a condor variable.
	VarType string

	// Flag is a Y/N column of a condor variable.
	Flag string

	// Var is the value of a condor variable record.
	Var struct {
		Type       VarType `json:"type" yaml:"type" toml:"type"`
		Default    string  `json:"default" yaml:"default" toml:"default"`
		CondorName string  `json:"condor_name" yaml:"condor_name" toml:"condor_name"`
		Required   Flag    `json:"required" yaml:"required" toml:"required"`
		Export     Flag    `json:"export" yaml:"export" toml:"export"`
		UserName   string  `json:"user_name" yaml:"user_name" toml:"user_name"`
	}

	// VarsCodec stores seven-column condor variable lines and emits a fixed
	// column header. Overwrites must keep the type and the export flag.
	VarsCodec struct{}
)

// NewPlain creates an attribute-style store ("key value").
func NewPlain(dir, filename string) *Store[string] {
	return newStore[string](dir, filename, PlainCodec{}, OrderInsertion)
}

// NewDescription creates a description store mapping filenames to role tags.
func NewDescription(dir, filename string) *TwoKeyStore {
	return newTwoKey(dir, filename, DescriptionCodec{}, OrderInsertion)
}

// NewSHA1 creates a content hash store mapping filenames to digests.
func NewSHA1(dir, filename string) *Store[string] {
	return newStore[string](dir, filename, SHA1Codec{}, OrderInsertion)
}

// NewSummarySHA1 creates a summary signature store.
func NewSummarySHA1(dir, filename string) *Store[SummaryHash] {
	return newStore[SummaryHash](dir, filename, SummarySHA1Codec{}, OrderInsertion)
}

// NewFileList creates a file list store.
func NewFileList(dir, filename string) *Store[FileMeta] {
	return newStore[FileMeta](dir, filename, FileListCodec{}, OrderInsertion)
}

// NewSubsystem creates a subsystem list store.
func NewSubsystem(dir, filename string) *Store[Subsystem] {
	return newStore[Subsystem](dir, filename, SubsystemCodec{}, OrderInsertion)
}

// NewVars creates a condor variables store.
func NewVars(dir, filename string) *Store[Var] {
	return newStore[Var](dir, filename, VarsCodec{}, OrderInsertion)
}

// --- Description ---

// Kind implements Codec.
func (DescriptionCodec) Kind() string { return "description" }

// FormatLine implements Codec.
func (DescriptionCodec) FormatLine(key, val string) string {
	return fmt.Sprintf("%s \t%s", val, key)
}

// ParseLine implements Codec.
func (c DescriptionCodec) ParseLine(line string) (key, val string, ok bool, err error) {
	if isComment(line) {
		return "", "", false, nil
	}
	fields, err := exactFields(c.Kind(), line, 2)
	if err != nil || fields == nil {
		return "", "", false, err
	}
	return fields[1], fields[0], true, nil
}

// Validate implements Codec. The tag is the first column.
func (DescriptionCodec) Validate(key, val string) error {
	if err := checkFirst(key, "tag", val); err != nil {
		return err
	}
	return checkLast(key, "filename", key, false)
}

// Compatible implements Codec.
func (DescriptionCodec) Compatible(string, string) bool { return true }

// Header implements Codec.
func (DescriptionCodec) Header() string { return "" }

// --- SHA1 ---

// Kind implements Codec.
func (SHA1Codec) Kind() string { return "SHA1" }

// FormatLine implements Codec.
func (SHA1Codec) FormatLine(key, val string) string {
	return fmt.Sprintf("%s  %s", val, key)
}

// ParseLine implements Codec.
func (c SHA1Codec) ParseLine(line string) (key, val string, ok bool, err error) {
	if isComment(line) {
		return "", "", false, nil
	}
	fields, err := exactFields(c.Kind(), line, 2)
	if err != nil || fields == nil {
		return "", "", false, err
	}
	return fields[1], fields[0], true, nil
}

// Validate implements Codec.
func (SHA1Codec) Validate(key, val string) error {
	if err := checkFirst(key, "hash", val); err != nil {
		return err
	}
	return checkLast(key, "filename", key, false)
}

// Compatible implements Codec.
func (SHA1Codec) Compatible(string, string) bool { return true }

// Header implements Codec.
func (SHA1Codec) Header() string { return "" }

// --- Summary SHA1 ---

// Fields returns the named columns of the record value.
func (h SummaryHash) Fields() map[string]string {
	return map[string]string{"hash": h.Hash, "filename": h.Filename}
}

// Kind implements Codec.
func (SummarySHA1Codec) Kind() string { return "summary signature" }

// FormatLine implements Codec.
func (SummarySHA1Codec) FormatLine(key string, val SummaryHash) string {
	return fmt.Sprintf("%s  %s  %s", val.Hash, val.Filename, key)
}

// ParseLine implements Codec.
func (c SummarySHA1Codec) ParseLine(line string) (key string, val SummaryHash, ok bool, err error) {
	if isComment(line) {
		return "", val, false, nil
	}
	fields, err := exactFields(c.Kind(), line, 3)
	if err != nil || fields == nil {
		return "", val, false, err
	}
	return fields[2], SummaryHash{Hash: fields[0], Filename: fields[1]}, true, nil
}

// Validate implements Codec.
func (SummarySHA1Codec) Validate(key string, val SummaryHash) error {
	if err := checkFirst(key, "hash", val.Hash); err != nil {
		return err
	}
	if err := checkToken(key, "filename", val.Filename); err != nil {
		return err
	}
	return checkLast(key, "key", key, false)
}

// Compatible implements Codec.
func (SummarySHA1Codec) Compatible(SummaryHash, SummaryHash) bool { return true }

// Header implements Codec.
func (SummarySHA1Codec) Header() string { return "" }

// --- File list ---

// Meta returns file metadata holding value.
func Meta(value string) FileMeta {
	return FileMeta{Value: value, Valid: true}
}

// String returns the metadata value, or "" when absent.
func (m FileMeta) String() string {
	return m.Value
}

// Fields returns the named columns of the record value.
func (m FileMeta) Fields() map[string]string {
	if !m.Valid {
		return map[string]string{}
	}
	return map[string]string{"metadata": m.Value}
}

// Kind implements Codec.
func (FileListCodec) Kind() string { return "file list" }

// FormatLine implements Codec. Absent metadata serializes as the key alone.
func (FileListCodec) FormatLine(key string, val FileMeta) string {
	if !val.Valid {
		return key
	}
	return fmt.Sprintf("%s %s", key, val.Value)
}

// ParseLine implements Codec.
func (FileListCodec) ParseLine(line string) (key string, val FileMeta, ok bool, err error) {
	if isComment(line) {
		return "", val, false, nil
	}
	fields := splitFields(line, 2)
	switch len(fields) {
	case 0:
		return "", val, false, nil
	case 1:
		return fields[0], FileMeta{}, true, nil
	default:
		return fields[0], Meta(fields[1]), true, nil
	}
}

// Validate implements Codec.
func (FileListCodec) Validate(key string, val FileMeta) error {
	if err := checkFirst(key, "key", key); err != nil {
		return err
	}
	if !val.Valid {
		return nil
	}
	return checkLast(key, "metadata", val.Value, false)
}

// Compatible implements Codec.
func (FileListCodec) Compatible(FileMeta, FileMeta) bool { return true }

// Header implements Codec.
func (FileListCodec) Header() string { return "" }

// --- Subsystem ---

// Fields returns the named columns of the record value.
func (s Subsystem) Fields() map[string]string {
	return map[string]string{"config_check": s.ConfigCheck, "wn_subdir": s.WNSubdir, "config_out": s.ConfigOut}
}

// Kind implements Codec.
func (SubsystemCodec) Kind() string { return "subsystem" }

// FormatLine implements Codec. The key sits in the third column.
func (SubsystemCodec) FormatLine(key string, val Subsystem) string {
	return fmt.Sprintf("%s %s %s %s", val.ConfigCheck, val.WNSubdir, key, val.ConfigOut)
}

// ParseLine implements Codec.
func (c SubsystemCodec) ParseLine(line string) (key string, val Subsystem, ok bool, err error) {
	if isComment(line) {
		return "", val, false, nil
	}
	fields, err := exactFields(c.Kind(), line, 4)
	if err != nil || fields == nil {
		return "", val, false, err
	}
	return fields[2], Subsystem{ConfigCheck: fields[0], WNSubdir: fields[1], ConfigOut: fields[3]}, true, nil
}

// Validate implements Codec.
func (SubsystemCodec) Validate(key string, val Subsystem) error {
	if err := checkFirst(key, "config check", val.ConfigCheck); err != nil {
		return err
	}
	for _, f := range [][2]string{{"wn subdir", val.WNSubdir}, {"key", key}} {
		if err := checkToken(key, f[0], f[1]); err != nil {
			return err
		}
	}
	return checkLast(key, "config out", val.ConfigOut, false)
}

// Compatible implements Codec.
func (SubsystemCodec) Compatible(Subsystem, Subsystem) bool { return true }

// Header implements Codec.
func (SubsystemCodec) Header() string { return "" }

// --- Vars ---

// IsValid reports whether the type is one of C, S or I.
func (t VarType) IsValid() bool {
	switch t {
	case VarTypeC, VarTypeS, VarTypeI:
		return true
	default:
		return false
	}
}

// IsValid reports whether the flag is Y or N.
func (f Flag) IsValid() bool {
	return f == FlagYes || f == FlagNo
}

// Fields returns the named columns of the record value.
func (v Var) Fields() map[string]string {
	return map[string]string{
		"type":        string(v.Type),
		"default":     v.Default,
		"condor_name": v.CondorName,
		"required":    string(v.Required),
		"export":      string(v.Export),
		"user_name":   v.UserName,
	}
}

// Kind implements Codec.
func (VarsCodec) Kind() string { return "var" }

// FormatLine implements Codec.
func (VarsCodec) FormatLine(key string, val Var) string {
	return fmt.Sprintf("%s \t%s \t%s \t\t%s \t%s \t%s \t%s",
		key, val.Type, val.Default, val.CondorName, val.Required, val.Export, val.UserName)
}

// ParseLine implements Codec.
func (c VarsCodec) ParseLine(line string) (key string, val Var, ok bool, err error) {
	if isComment(line) {
		return "", val, false, nil
	}
	fields, err := exactFields(c.Kind(), line, 7)
	if err != nil || fields == nil {
		return "", val, false, err
	}
	return fields[0], Var{
		Type:       VarType(fields[1]),
		Default:    fields[2],
		CondorName: fields[3],
		Required:   Flag(fields[4]),
		Export:     Flag(fields[5]),
		UserName:   fields[6],
	}, true, nil
}

// Validate implements Codec.
func (VarsCodec) Validate(key string, val Var) error {
	if !val.Type.IsValid() {
		return &InvalidValueError{Key: key, Field: "type", Value: string(val.Type), Allowed: []string{"C", "S", "I"}}
	}
	if !val.Required.IsValid() {
		return &InvalidValueError{Key: key, Field: "required", Value: string(val.Required), Allowed: []string{"Y", "N"}}
	}
	if !val.Export.IsValid() {
		return &InvalidValueError{Key: key, Field: "export", Value: string(val.Export), Allowed: []string{"Y", "N"}}
	}
	if err := checkFirst(key, "key", key); err != nil {
		return err
	}
	for _, f := range [][2]string{{"default", val.Default}, {"condor name", val.CondorName}} {
		if err := checkToken(key, f[0], f[1]); err != nil {
			return err
		}
	}
	return checkLast(key, "user name", val.UserName, false)
}

// Compatible implements Codec; the type and the export flag must be preserved.
func (VarsCodec) Compatible(oldVal, newVal Var) bool {
	return oldVal.Type == newVal.Type && oldVal.Export == newVal.Export
}

// Header implements Codec.
func (VarsCodec) Header() string { return varsHeader }
