// SPDX-License-Identifier: MPL-2.0

// Package testutil holds Must* helpers that fail the test on error, for
// environment isolation (HOME, XDG_CONFIG_HOME, CGWDICT_*), the working
// directory and file fixtures. On-disk bundle trees are built by the
// bundletest subpackage.
package testutil
