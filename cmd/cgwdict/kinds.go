// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cgwdict/pkg/bundle"
	"cgwdict/pkg/dictfile"
	"cgwdict/pkg/naming"
)

// ErrUnknownKind is returned when a dictionary kind can be neither parsed
// nor inferred from the filename.
var ErrUnknownKind = errors.New("unknown dictionary kind")

// dictOpeners builds an empty dictionary of each role's kind.
var dictOpeners = map[bundle.Role]func(dir, filename string) dictfile.Dict{
	bundle.RoleAttrs:            func(d, f string) dictfile.Dict { return dictfile.NewPlain(d, f) },
	bundle.RoleConsts:           func(d, f string) dictfile.Dict { return dictfile.NewPlain(d, f) },
	bundle.RoleParams:           func(d, f string) dictfile.Dict { return dictfile.NewPlain(d, f) },
	bundle.RoleDescription:      func(d, f string) dictfile.Dict { return dictfile.NewDescription(d, f) },
	bundle.RoleVars:             func(d, f string) dictfile.Dict { return dictfile.NewVars(d, f) },
	bundle.RoleFileList:         func(d, f string) dictfile.Dict { return dictfile.NewFileList(d, f) },
	bundle.RoleScriptList:       func(d, f string) dictfile.Dict { return dictfile.NewFileList(d, f) },
	bundle.RoleSubsystemList:    func(d, f string) dictfile.Dict { return dictfile.NewSubsystem(d, f) },
	bundle.RoleSignature:        func(d, f string) dictfile.Dict { return dictfile.NewSHA1(d, f) },
	bundle.RoleSummarySignature: func(d, f string) dictfile.Dict { return dictfile.NewSummarySHA1(d, f) },
}

// kindNames lists the accepted --kind values.
func kindNames() []string {
	roles := bundle.AllRoles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}

// resolveKind returns the role named by kind, or the role whose layout
// filename matches path when kind is empty.
func resolveKind(kind, path string, layout naming.Layout) (bundle.Role, error) {
	if kind != "" {
		role := bundle.Role(kind)
		if !role.IsValid() {
			return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownKind, kind, strings.Join(kindNames(), ", "))
		}
		return role, nil
	}

	base := filepath.Base(path)
	for _, kv := range layout.Filenames() {
		if kv[1] == base {
			return bundle.Role(kv[0]), nil
		}
	}
	return "", fmt.Errorf("%w: cannot infer the kind of %q, use --kind", ErrUnknownKind, base)
}

// loadDict reads a single dictionary file of the given role.
func loadDict(role bundle.Role, path string) (dictfile.Dict, error) {
	d := dictOpeners[role](filepath.Dir(path), filepath.Base(path))
	if err := d.Load(); err != nil {
		return nil, err
	}
	return d, nil
}
