// SPDX-License-Identifier: MPL-2.0

// Package bundletest writes on-disk bundle trees for tests.
//
// This package is separate from testutil so that the files it writes are
// produced independently of pkg/bundle, which is what it is used to test.
//
// # Usage
//
//	import "cgwdict/internal/testutil/bundletest"
//
//	bundletest.WriteTree(t, submitDir, stageDir,
//	    bundletest.NewSpec(bundletest.WithAttr("GLIDEIN_Site", "X")), nil)
package bundletest
