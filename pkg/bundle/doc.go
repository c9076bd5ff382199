// SPDX-License-Identifier: MPL-2.0

// Package bundle assembles dictionaries into main and entry bundles.
//
// A bundle is a fixed set of dictionaries split across a submission directory
// (params, and for the main bundle the summary signature) and a staging
// directory (everything else). The description dictionary maps each role tag
// to the filename it is stored under, so loading is two-phase: first the
// description, then every file it names.
//
// The main summary signature records, for "main" and for every entry tag, the
// digest and filename of that bundle's description; Composite.Load uses it to
// discover the entries and Composite.Save rewrites it.
package bundle
