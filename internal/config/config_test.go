package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEarlRCFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".earl")
	writeFile(t, path, "verbose=true\ninclude=lib,vendor/lib\nwatch=a.earl, b.earl\n")

	rc, err := LoadEarlRCFrom(path)
	if err != nil {
		t.Fatalf("LoadEarlRCFrom: %v", err)
	}
	if !rc.Bool("verbose") {
		t.Errorf("verbose = false, want true")
	}
	if got := rc.List("include"); len(got) != 2 || got[0] != "lib" || got[1] != "vendor/lib" {
		t.Errorf("include = %v, want [lib vendor/lib]", got)
	}
	if got := rc.List("watch"); len(got) != 2 || got[0] != "a.earl" || got[1] != "b.earl" {
		t.Errorf("watch = %v, want [a.earl b.earl]", got)
	}
}

func TestLoadEarlRCMissingIsNotError(t *testing.T) {
	rc, err := LoadEarlRCFrom(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dotfile should not error, got %v", err)
	}
	if len(rc.Scalars) != 0 {
		t.Errorf("expected empty scalars, got %v", rc.Scalars)
	}
}

func TestLoadEarlRCUnknownKeyAborts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".earl")
	writeFile(t, path, "bogus-flag=1\n")

	if _, err := LoadEarlRCFrom(path); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestLoadEarlRCMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".earl")
	writeFile(t, path, "not-a-key-value-line\n")

	if _, err := LoadEarlRCFrom(path); err == nil {
		t.Fatal("expected an error for a malformed line")
	}
}

func TestMemRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".earl_mem")
	writeFile(t, path, "count=x3\nname=shello\nflag=btrue\npi=f3.5\ninitial=cA\n")

	m, err := LoadMemFrom(path)
	if err != nil {
		t.Fatalf("LoadMemFrom: %v", err)
	}

	count, ok := m.Entries["count"]
	if !ok || count.Kind != MemInt {
		t.Fatalf("count entry = %+v, ok=%v", count, ok)
	}
	n, err := count.Int()
	if err != nil || n != 3 {
		t.Errorf("count.Int() = %d, %v; want 3, nil", n, err)
	}

	flag, ok := m.Entries["flag"]
	if !ok || flag.Kind != MemBool {
		t.Fatalf("flag entry = %+v, ok=%v", flag, ok)
	}
	b, err := flag.Bool()
	if err != nil || !b {
		t.Errorf("flag.Bool() = %v, %v; want true, nil", b, err)
	}

	m.Set("extra", MemInt, "42")
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := LoadMemFrom(path)
	if err != nil {
		t.Fatalf("reload after Save: %v", err)
	}
	extra, ok := reloaded.Entries["extra"]
	if !ok || extra.Raw != "42" {
		t.Errorf("extra entry after save/reload = %+v, ok=%v", extra, ok)
	}
}

func TestLoadMemUnknownSigil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".earl_mem")
	writeFile(t, path, "bad=zvalue\n")

	if _, err := LoadMemFrom(path); err == nil {
		t.Fatal("expected an error for an unknown sigil")
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writeFile(%s): %v", path, err)
	}
}
