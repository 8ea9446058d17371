// Package config loads EARL's two dotfiles: the `~/.earl` flag-default
// file and the `~/.earl_mem` persistent scalar memory file. Both are flat
// `key=value` text files, parsed with bufio.Scanner.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// listKeys is the closed set of ~/.earl keys that accept a comma-separated
// list rather than a single scalar.
var listKeys = map[string]bool{
	"watch":   true,
	"include": true,
	"import":  true,
}

// knownKeys is the closed flag set a ~/.earl file may set.
// Any other key aborts config load.
var knownKeys = map[string]bool{
	"without-stdlib": true, "repl-nocolor": true, "watch": true,
	"show-funs": true, "check": true, "to-py": true, "verbose": true,
	"show-bash": true, "show-lets": true, "show-muts": true,
	"no-sanitize-pipes": true, "error-on-bash-fail": true,
	"suppress-warnings": true, "include": true, "import": true,
	"repl-theme": true, "repl-welcome": true,
	"disable-implicit-returns": true,
}

// EarlRC is the parsed contents of a `~/.earl` file: scalar values by key,
// with comma-split lists pulled out separately for the three list keys.
type EarlRC struct {
	Scalars map[string]string
	Lists   map[string][]string
}

// LoadEarlRC reads and parses `~/.earl`. A missing file is not an error
// (EARL runs fine with no dotfile); an unrecognized key aborts the load
// with an error, which callers report without aborting the program.
func LoadEarlRC() (*EarlRC, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return &EarlRC{Scalars: map[string]string{}, Lists: map[string][]string{}}, nil
	}
	return LoadEarlRCFrom(filepath.Join(home, ".earl"))
}

// LoadEarlRCFrom parses the dotfile at path, exposed separately so tests
// don't need to touch the real $HOME.
func LoadEarlRCFrom(path string) (*EarlRC, error) {
	rc := &EarlRC{Scalars: map[string]string{}, Lists: map[string][]string{}}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rc, nil
		}
		return nil, err
	}
	defer f.Close()

	if err := rc.parse(f); err != nil {
		return nil, err
	}
	return rc, nil
}

func (rc *EarlRC) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf(".earl:%d: malformed line %q (expected key=value)", lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !knownKeys[key] {
			return fmt.Errorf(".earl:%d: unknown key %q", lineNo, key)
		}
		if listKeys[key] {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			rc.Lists[key] = append(rc.Lists[key], parts...)
			continue
		}
		rc.Scalars[key] = value
	}
	return scanner.Err()
}

// Bool reports the boolean flag value for key, defaulting to false when
// absent or unparsable (the ~/.earl boolean keys are presence/true/false
// scalars, e.g. `verbose=true`).
func (rc *EarlRC) Bool(key string) bool {
	v, ok := rc.Scalars[key]
	if !ok {
		return false
	}
	return v == "" || v == "true" || v == "1"
}

// String returns the scalar value for key, or "" if absent.
func (rc *EarlRC) String(key string) string {
	return rc.Scalars[key]
}

// List returns the comma-split list for key, or nil if absent.
func (rc *EarlRC) List(key string) []string {
	return rc.Lists[key]
}
