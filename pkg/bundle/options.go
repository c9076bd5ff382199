// SPDX-License-Identifier: MPL-2.0

package bundle

import "cgwdict/pkg/naming"

type (
	equalOptions struct {
		dirs      bool
		filenames bool
		name      bool
		main      bool
	}

	// EqualOption configures Equal on Main, Entry and Composite.
	EqualOption func(*equalOptions)

	// Signer computes the digest recorded for a saved file.
	Signer interface {
		SumFile(path string) (string, error)
	}

	// Option configures a Composite.
	Option func(*Composite)
)

func newEqualOptions(opts []EqualOption) equalOptions {
	var o equalOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CompareDirs requires equal submission and staging directories.
func CompareDirs() EqualOption {
	return func(o *equalOptions) { o.dirs = true }
}

// CompareFilenames requires every store to be bound to the same filename.
func CompareFilenames() EqualOption {
	return compareFilenames(true)
}

func compareFilenames(enabled bool) EqualOption {
	return func(o *equalOptions) { o.filenames = enabled }
}

// CompareName requires equal entry names.
func CompareName() EqualOption {
	return func(o *equalOptions) { o.name = true }
}

// CompareMain requires entries to be attached to equal main bundles.
func CompareMain() EqualOption {
	return func(o *equalOptions) { o.main = true }
}

// WithLayout overrides the default filename layout.
func WithLayout(layout naming.Layout) Option {
	return func(c *Composite) { c.layout = layout }
}

// WithSigner sets the digest used by Save.
func WithSigner(signer Signer) Option {
	return func(c *Composite) { c.signer = signer }
}
