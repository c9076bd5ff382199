// SPDX-License-Identifier: MPL-2.0

// Package dictfile persists ordered key/value dictionaries as whitespace
// delimited text files.
//
// A Store is generic over its value type and delegates the line grammar to a
// Codec: one codec per artifact kind (attributes, descriptions, content
// hashes, summary hashes, file lists, subsystems and condor variables).
// TwoKeyStore additionally keeps values unique and reverse-lookupable; it backs
// the description files that map physical filenames to role tags.
//
// On disk, every record is one line. A line whose first character is '#' is a
// comment and blank lines are ignored, so headers written by Save are skipped
// again by Load.
//
//	vars := dictfile.NewVars(stageDir, "condor_vars.lst")
//	if err := vars.Load(); err != nil {
//		var perr *dictfile.ParseError
//		if errors.As(err, &perr) {
//			// perr.Path and perr.Line locate the offending record
//		}
//	}
//
// Stores are not safe for concurrent use. The readonly flag is a guard against
// accidental mutation inside one process, not a lock.
package dictfile
