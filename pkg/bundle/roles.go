// SPDX-License-Identifier: MPL-2.0

package bundle

// Role names one dictionary of a bundle.
type Role string

const (
	// RoleAttrs holds glidein attributes (attributes.cfg).
	RoleAttrs Role = "attrs"
	// RoleDescription maps each indexed role tag to its filename (description.cfg).
	RoleDescription Role = "description"
	// RoleConsts holds constants (constants.cfg).
	RoleConsts Role = "consts"
	// RoleParams holds parameters, kept in the submission directory (params.cfg).
	RoleParams Role = "params"
	// RoleVars holds condor variable definitions (condor_vars.lst).
	RoleVars Role = "vars"
	// RoleFileList lists files shipped with the glidein (file_list.lst).
	RoleFileList Role = "file_list"
	// RoleScriptList lists scripts run by the glidein (script_list.lst).
	RoleScriptList Role = "script_list"
	// RoleSubsystemList lists optional subsystems (subsystem_list.lst).
	RoleSubsystemList Role = "subsystem_list"
	// RoleSignature holds the digest of every other indexed file (signature.sha1).
	RoleSignature Role = "signature"
	// RoleSummarySignature records each bundle's description digest; main
	// bundle only (signatures.sha1).
	RoleSummarySignature Role = "summary_signature"
)

// indexedRoles are located through the description, in load order.
var indexedRoles = []Role{
	RoleSignature,
	RoleAttrs,
	RoleConsts,
	RoleVars,
	RoleFileList,
	RoleScriptList,
	RoleSubsystemList,
}

// commonRoles are present in every bundle, in display order.
var commonRoles = []Role{
	RoleAttrs,
	RoleDescription,
	RoleConsts,
	RoleParams,
	RoleVars,
	RoleFileList,
	RoleScriptList,
	RoleSubsystemList,
	RoleSignature,
}

// AllRoles returns every role a main bundle holds.
func AllRoles() []Role {
	return append(append([]Role(nil), commonRoles...), RoleSummarySignature)
}

// DescriptionTag returns the tag a role is recorded under in a description,
// or "" for roles that are not indexed by it.
func (r Role) DescriptionTag() string {
	switch r {
	case RoleSignature:
		return "signature"
	case RoleAttrs:
		return "attrs_file"
	case RoleConsts:
		return "consts_file"
	case RoleVars:
		return "condor_vars"
	case RoleFileList:
		return "file_list"
	case RoleScriptList:
		return "script_list"
	case RoleSubsystemList:
		return "subsystem_list"
	default:
		return ""
	}
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAttrs, RoleDescription, RoleConsts, RoleParams, RoleVars,
		RoleFileList, RoleScriptList, RoleSubsystemList, RoleSignature, RoleSummarySignature:
		return true
	default:
		return false
	}
}

// String returns the role name.
func (r Role) String() string { return string(r) }
