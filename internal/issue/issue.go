// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	DictParseFailedId
	DictNotFoundId
	BundleLoadFailedId
	EntryNotFoundId
	InvalidLayoutId
	SignatureMismatchId
	ReadOnlyId
)

// MarkdownMsg is catalog text in Markdown.
type MarkdownMsg string

// Issue is one catalog entry.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render formats the entry for a terminal with the named glamour style
// ("dark", "light", "notty", "auto").
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The cgwdict configuration file could not be read or does not match the schema.

## Things you can try:
- Check where the configuration is read from:
~~~
$ cgwdict config path
~~~

- Print the effective configuration:
~~~
$ cgwdict config show
~~~

- Recreate a default configuration:
~~~
$ cgwdict config init --force
~~~`,
	}

	dictParseFailedIssue = &Issue{
		id: DictParseFailedId,
		mdMsg: `
# Failed to parse dictionary file!

A line does not match the format of its file kind.

## Common issues:
- Wrong number of columns (condor vars need 7, subsystems 4, summary signatures 3)
- Variable type other than C, S or I
- Required or export flag other than Y or N
- The same key listed twice

## Things you can try:
- Check the line reported in the error message
- Validate a single file:
~~~
$ cgwdict check --kind vars condor_vars.lst
~~~`,
	}

	dictNotFoundIssue = &Issue{
		id: DictNotFoundId,
		mdMsg: `
# Dictionary file not found!

A file named by the bundle description (or the summary signature) does not exist.

## Things you can try:
- Check the submission and staging directories:
~~~
$ cgwdict config show
~~~

- List the files the description expects:
~~~
$ cgwdict show --kind description description.cfg
~~~`,
	}

	bundleLoadFailedIssue = &Issue{
		id: BundleLoadFailedId,
		mdMsg: `
# Failed to load bundle!

The main bundle or one of its entries could not be loaded.

## Load order:
1. Summary signature (submission directory)
2. Description recorded under "main" or the entry tag
3. Params (submission directory)
4. Every file the description names (staging directory)

## Things you can try:
- Run with --verbose to see the full error chain
- Make sure every description lists signature, attrs_file, consts_file,
  condor_vars, file_list, script_list and subsystem_list`,
	}

	entryNotFoundIssue = &Issue{
		id: EntryNotFoundId,
		mdMsg: `
# Entry not found!

The requested entry is not listed in the main summary signature.

## Things you can try:
- List the entries that were discovered:
~~~
$ cgwdict entries
~~~`,
	}

	invalidLayoutIssue = &Issue{
		id: InvalidLayoutId,
		mdMsg: `
# Invalid file layout!

The configured filenames cannot be used for a bundle.

## Rules:
- Every filename must be a single, non-empty path element without whitespace
- No two roles may share a filename
- The entry prefix must not be empty

## Things you can try:
~~~
$ cgwdict config dump
~~~`,
	}

	signatureMismatchIssue = &Issue{
		id: SignatureMismatchId,
		mdMsg: `
# Signature mismatch!

One or more files changed after the bundle was signed.

## Things you can try:
- Re-sign the bundle after reviewing the changes:
~~~
$ cgwdict sign
~~~

- Check that the configured signature algorithm matches the one used to sign`,
	}

	readOnlyIssue = &Issue{
		id: ReadOnlyId,
		mdMsg: `
# Bundle is read-only!

The bundle was opened read-only, so it cannot be modified or reloaded.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		dictParseFailedIssue.Id():   dictParseFailedIssue,
		dictNotFoundIssue.Id():      dictNotFoundIssue,
		bundleLoadFailedIssue.Id():  bundleLoadFailedIssue,
		entryNotFoundIssue.Id():     entryNotFoundIssue,
		invalidLayoutIssue.Id():     invalidLayoutIssue,
		signatureMismatchIssue.Id(): signatureMismatchIssue,
		readOnlyIssue.Id():          readOnlyIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
