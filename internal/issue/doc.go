// SPDX-License-Identifier: MPL-2.0

// Package issue holds the catalog of cgwdict failure explanations, rendered
// as Markdown with glamour, and ActionableError, which links a failed
// operation to its catalog entry and to suggested fixes.
package issue
