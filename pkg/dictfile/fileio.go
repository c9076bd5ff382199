// SPDX-License-Identifier: MPL-2.0

package dictfile

import (
	"bufio"
	"os"
)

// maxLineSize bounds a single record; file lists can carry long metadata.
const maxLineSize = 1024 * 1024

// writeLines truncates path and writes header (when non-empty) followed by lines.
// The write is not atomic: a failure can leave a partial file behind.
func writeLines(path, header string, lines []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: closeErr}
		}
	}()

	w := bufio.NewWriter(f)
	if header != "" {
		_, _ = w.WriteString(header)
		_ = w.WriteByte('\n')
	}
	for _, line := range lines {
		_, _ = w.WriteString(line)
		_ = w.WriteByte('\n')
	}
	// bufio.Writer errors are sticky, Flush reports the first one.
	if err := w.Flush(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// readLines calls parse for every non-blank, non-comment line of path.
// Parse failures are annotated with the path and the 1-based line number.
func readLines(path string, parse func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || isComment(line) {
			continue
		}
		if err := parse(line); err != nil {
			return &ParseError{Path: path, Line: lineNo, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return &IOError{Op: "read", Path: path, Err: err}
	}
	return nil
}
