// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// MustChdir switches the working directory to dir and returns the function
// that switches back. config.Locate checks the working directory, so tests
// that call it run from an empty temp dir.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("chdir back to %s: %v", wd, err)
		}
	}
}

// MustSetenv sets key and returns the function restoring its previous state.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	restore := envRestorer(t, key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s: %v", key, err)
	}
	return restore
}

// MustUnsetenv unsets key, for CGWDICT_* overrides that t.Setenv can only
// set to empty, and returns the function restoring its previous state.
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	restore := envRestorer(t, key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv %s: %v", key, err)
	}
	return restore
}

func envRestorer(t testing.TB, key string) func() {
	old, had := os.LookupEnv(key)
	return func() {
		var err error
		if had {
			err = os.Setenv(key, old)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("restore env %s: %v", key, err)
		}
	}
}

// MustWriteFile writes a dictionary or config file, creating its parent
// directories.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MustReadFile returns the content of path.
func MustReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// MustRemoveAll deletes path, typically a file a bundle tree expects.
func MustRemoveAll(t testing.TB, path string) {
	t.Helper()
	if err := os.RemoveAll(path); err != nil {
		t.Fatalf("remove %s: %v", path, err)
	}
}
