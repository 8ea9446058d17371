package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// MemKind is the single-letter sigil tagging a `~/.earl_mem` scalar's type.
type MemKind byte

const (
	MemInt   MemKind = 'x'
	MemStr   MemKind = 's'
	MemChar  MemKind = 'c'
	MemBool  MemKind = 'b'
	MemFloat MemKind = 'f'
)

// MemScalar is one persisted value: its sigil-tagged kind plus the raw
// text form, as read by LoadMem/LoadMemFrom. The interpreter does not load
// or save this file itself, and no intrinsic exposes it.
type MemScalar struct {
	Kind MemKind
	Raw  string
}

// Int parses the scalar as an int64; only meaningful when Kind == MemInt.
func (m MemScalar) Int() (int64, error) { return strconv.ParseInt(m.Raw, 10, 64) }

// Float parses the scalar as a float64; only meaningful when Kind == MemFloat.
func (m MemScalar) Float() (float64, error) { return strconv.ParseFloat(m.Raw, 64) }

// Bool parses the scalar as a bool; only meaningful when Kind == MemBool.
func (m MemScalar) Bool() (bool, error) { return strconv.ParseBool(m.Raw) }

// Mem is the parsed contents of `~/.earl_mem`: a flat map of name to a
// sigil-tagged scalar.
type Mem struct {
	path    string
	Entries map[string]MemScalar
}

// LoadMem reads `~/.earl_mem`, or returns an empty Mem if it doesn't
// exist. Each line has the form `name=KvALUE` where K is the one-letter
// sigil in {x,s,c,b,f}.
func LoadMem() (*Mem, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return &Mem{Entries: map[string]MemScalar{}}, nil
	}
	return LoadMemFrom(filepath.Join(home, ".earl_mem"))
}

// LoadMemFrom parses the persistent-memory file at path.
func LoadMemFrom(path string) (*Mem, error) {
	m := &Mem{path: path, Entries: map[string]MemScalar{}}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, rest, ok := strings.Cut(line, "=")
		if !ok || len(rest) == 0 {
			return nil, fmt.Errorf(".earl_mem:%d: malformed line %q", lineNo, line)
		}
		sigil := MemKind(rest[0])
		switch sigil {
		case MemInt, MemStr, MemChar, MemBool, MemFloat:
		default:
			return nil, fmt.Errorf(".earl_mem:%d: unknown sigil %q", lineNo, rest[:1])
		}
		m.Entries[strings.TrimSpace(name)] = MemScalar{Kind: sigil, Raw: rest[1:]}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Set installs or replaces a scalar under name.
func (m *Mem) Set(name string, kind MemKind, raw string) {
	m.Entries[name] = MemScalar{Kind: kind, Raw: raw}
}

// Save rewrites the persistent-memory file in place, sorted by key for
// a stable diff between runs.
func (m *Mem) Save() error {
	path := m.path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".earl_mem")
	}

	names := make([]string, 0, len(m.Entries))
	for name := range m.Entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		s := m.Entries[name]
		fmt.Fprintf(&sb, "%s=%c%s\n", name, s.Kind, s.Raw)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
