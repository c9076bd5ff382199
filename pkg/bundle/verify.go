// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"fmt"
	"path/filepath"

	"cgwdict/pkg/naming"
)

type (
	// VerifyIssue is a single signature mismatch found by Verify.
	VerifyIssue struct {
		// Bundle is "main" or "entry <name>".
		Bundle string
		// Path is the file whose digest was checked (optional).
		Path string
		// Message describes the problem.
		Message string
	}

	// VerifyResult collects every issue found by Verify.
	VerifyResult struct {
		// Valid is true if every recorded digest matched.
		Valid bool
		// Checked counts the files whose digest was computed.
		Checked int
		// Issues contains all problems found.
		Issues []VerifyIssue
	}
)

// Error implements the error interface.
func (v VerifyIssue) Error() string {
	if v.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", v.Bundle, v.Path, v.Message)
	}
	return fmt.Sprintf("[%s] %s", v.Bundle, v.Message)
}

// AddIssue records a problem and marks the result invalid.
func (r *VerifyResult) AddIssue(bundle, path, message string) {
	r.Issues = append(r.Issues, VerifyIssue{Bundle: bundle, Path: path, Message: message})
	r.Valid = false
}

// Verify recomputes the digest of every description and signed file of a
// loaded composite and compares it with the recorded one.
func (c *Composite) Verify() *VerifyResult {
	result := &VerifyResult{Valid: true}
	c.verifyBundle(result, c.main.Bundle, naming.MainTag)
	for _, e := range c.Entries() {
		c.verifyBundle(result, e.Bundle, e.Tag())
	}
	return result
}

func (c *Composite) verifyBundle(result *VerifyResult, b *Bundle, tag string) {
	rec, ok := c.main.SummarySignature().Lookup(tag)
	if !ok {
		result.AddIssue(b.label, "", fmt.Sprintf("no summary signature recorded under %q", tag))
	} else {
		c.verifyFile(result, b.label, filepath.Join(b.stageDir, rec.Filename), rec.Hash)
	}

	for _, rec := range b.Signature.Records() {
		want, _ := rec.Value.(string)
		c.verifyFile(result, b.label, filepath.Join(b.stageDir, rec.Key), want)
	}
}

func (c *Composite) verifyFile(result *VerifyResult, label, path, want string) {
	got, err := c.signer.SumFile(path)
	if err != nil {
		result.AddIssue(label, path, err.Error())
		return
	}
	result.Checked++
	if got != want {
		result.AddIssue(label, path, fmt.Sprintf("digest mismatch: recorded %s, found %s", want, got))
	}
}
