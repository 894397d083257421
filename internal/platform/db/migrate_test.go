package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, sql := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestVersionFromFilename(t *testing.T) {
	cases := []struct {
		name    string
		version int
		ok      bool
	}{
		{"001_core.sql", 1, true},
		{"010_archive.sql", 10, true},
		{"3_quick.sql", 3, true},
		{"readme.sql", 0, false},
		{"abc_notes.sql", 0, false},
		{"042.sql", 0, false},
	}
	for _, tc := range cases {
		v, ok := versionFromFilename(tc.name)
		if v != tc.version || ok != tc.ok {
			t.Errorf("versionFromFilename(%q) = (%d, %v), want (%d, %v)", tc.name, v, ok, tc.version, tc.ok)
		}
	}
}

func TestLoadMigrations_OrdersNumerically(t *testing.T) {
	// 010 sorts before 002 lexically; the loader must order by number.
	dir := writeMigrations(t, map[string]string{
		"010_panels.sql":  "SELECT 10;",
		"002_indexes.sql": "SELECT 2;",
		"001_core.sql":    "CREATE TABLE input_profile (id UUID PRIMARY KEY);",
		"005_archive.sql": "SELECT 5;",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{1, 2, 5, 10}
	if len(migrations) != len(want) {
		t.Fatalf("loaded %d migrations, want %d", len(migrations), len(want))
	}
	for i, v := range want {
		if migrations[i].Version != v {
			t.Errorf("migrations[%d].Version = %d, want %d", i, migrations[i].Version, v)
		}
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("first migration name = %q", migrations[0].Name)
	}
	if migrations[0].SQL != "CREATE TABLE input_profile (id UUID PRIMARY KEY);" {
		t.Errorf("first migration SQL = %q", migrations[0].SQL)
	}
}

func TestLoadMigrations_SkipsUnversionedFiles(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"001_core.sql":     "SELECT 1;",
		"002_profiles.sql": "SELECT 2;",
		"readme.sql":       "-- no version prefix",
		"abc_draft.sql":    "-- non-numeric prefix",
		"notes.txt":        "not SQL at all",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("loaded %d migrations, want 2", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Errorf("versions = %d, %d, want 1, 2", migrations[0].Version, migrations[1].Version)
	}
}

func TestLoadMigrations_EmptyDir(t *testing.T) {
	migrations, err := NewMigrator(nil, t.TempDir()).LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 0 {
		t.Errorf("loaded %d migrations from an empty directory", len(migrations))
	}
}

func TestLoadMigrations_MissingDirFails(t *testing.T) {
	_, err := NewMigrator(nil, filepath.Join(t.TempDir(), "nope")).LoadMigrations()
	if err == nil {
		t.Fatal("missing migrations directory did not error")
	}
}
