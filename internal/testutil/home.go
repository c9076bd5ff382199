// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the variable os.UserHomeDir reads (USERPROFILE on
// Windows, HOME elsewhere) at dir and returns the restore function.
// config.ConfigDir falls back to the home directory when XDG_CONFIG_HOME
// and CGWDICT_CONFIG_DIR are unset.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	if runtime.GOOS == "windows" {
		return MustSetenv(t, "USERPROFILE", dir)
	}
	return MustSetenv(t, "HOME", dir)
}
