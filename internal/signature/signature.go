// SPDX-License-Identifier: MPL-2.0

// Package signature computes the file digests recorded in bundle signatures.
package signature

import (
	"crypto/sha1" //nolint:gosec // signature files are named *.sha1; not used for security
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

const (
	// SHA1 is the historical digest of signature.sha1 files.
	SHA1 Algorithm = "sha1"
	// BLAKE3 is a faster 256-bit digest.
	BLAKE3 Algorithm = "blake3"
)

// ErrUnknownAlgorithm is returned for an unsupported algorithm name.
var ErrUnknownAlgorithm = errors.New("unknown signature algorithm")

type (
	// Algorithm names a digest function.
	Algorithm string

	// Hasher computes hex digests of files with one algorithm.
	Hasher struct {
		alg     Algorithm
		newHash func() hash.Hash
	}
)

// Algorithms returns every supported algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{SHA1, BLAKE3}
}

// IsValid reports whether a is a supported algorithm.
func (a Algorithm) IsValid() bool {
	return a == SHA1 || a == BLAKE3
}

// String returns the algorithm name.
func (a Algorithm) String() string { return string(a) }

// New returns a Hasher for alg.
func New(alg Algorithm) (*Hasher, error) {
	switch alg {
	case SHA1:
		return &Hasher{alg: alg, newHash: sha1.New}, nil
	case BLAKE3:
		return &Hasher{alg: alg, newHash: func() hash.Hash { return blake3.New() }}, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %q, %q)", ErrUnknownAlgorithm, alg, SHA1, BLAKE3)
	}
}

// Default returns the SHA1 hasher.
func Default() *Hasher {
	h, _ := New(SHA1)
	return h
}

// Algorithm returns the hasher's algorithm.
func (h *Hasher) Algorithm() Algorithm { return h.alg }

// Sum returns the hex digest of everything read from r.
func (h *Hasher) Sum(r io.Reader) (string, error) {
	d := h.newHash()
	if _, err := io.Copy(d, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}

// SumFile returns the hex digest of the file at path.
func (h *Hasher) SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sum, err := h.Sum(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return sum, nil
}
