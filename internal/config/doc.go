// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/cgwdict/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/cgwdict/config.cue on macOS, %APPDATA%\cgwdict\config.cue
// on Windows), or from config.cue in the working directory. It selects the main submission
// and staging directories, the signature algorithm, the bundle file layout, logging and UI
// settings. CGWDICT_* environment variables override file values (CGWDICT_LOG_LEVEL sets
// log.level).
//
// Files are validated against a CUE schema (config_schema.cue) before being merged.
package config
