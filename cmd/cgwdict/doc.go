// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for cgwdict.
//
// The command tree inspects, validates, exports and signs dictionary bundles:
// single dictionary files (show, check), the main bundle and its entries
// (bundle, entries, export, sign, verify) and the cgwdict configuration
// itself (config).
package cmd
