package medium

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pasjesplank/plank/internal/config"
	"github.com/pasjesplank/plank/internal/model"
)

// exerciseMedium runs the behavior every backend must share.
func exerciseMedium(t *testing.T, m Medium) {
	t.Helper()
	ctx := context.Background()

	got, err := m.Get(ctx, "klantenkaarten")
	if err != nil {
		t.Fatalf("Get on empty medium failed: %v", err)
	}
	if got != nil {
		t.Fatalf("Expected nil for absent key, got %q", got)
	}

	first := []byte(`[{"id":"1"}]`)
	if err := m.Put(ctx, "klantenkaarten", first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err = m.Get(ctx, "klantenkaarten")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, first) {
		t.Errorf("Get = %q, want %q", got, first)
	}

	second := []byte(`[]`)
	if err := m.Put(ctx, "klantenkaarten", second); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	got, _ = m.Get(ctx, "klantenkaarten")
	if !bytes.Equal(got, second) {
		t.Errorf("Get after overwrite = %q, want %q", got, second)
	}

	other, _ := m.Get(ctx, "other")
	if other != nil {
		t.Errorf("Keys leaked into each other: %q", other)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseMedium(t, m)
	if m.Puts() != 2 {
		t.Errorf("Puts = %d, want 2", m.Puts())
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	value := []byte("abc")
	_ = m.Put(context.Background(), "k", value)
	value[0] = 'x'

	got, _ := m.Get(context.Background(), "k")
	if string(got) != "abc" {
		t.Errorf("Stored value aliased caller slice: %q", got)
	}
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	f := NewFile(dir)
	exerciseMedium(t, f)

	if _, err := os.Stat(f.Path("klantenkaarten")); err != nil {
		t.Errorf("Expected slot file on disk: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plank.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer s.Close()

	exerciseMedium(t, s)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plank.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if err := s.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	s.Close()

	s, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s.Close()

	got, _ := s.Get(context.Background(), "k")
	if string(got) != "v" {
		t.Errorf("Get after reopen = %q", got)
	}
}

func TestOpen(t *testing.T) {
	home := t.TempDir()
	paths := config.NewPaths(home, "")
	ctx := context.Background()

	tests := []struct {
		backend string
		check   func(Medium) bool
	}{
		{model.BackendFile, func(m Medium) bool {
			f, ok := m.(*File)
			return ok && f.Dir() == paths.DataRoot()
		}},
		{"", func(m Medium) bool { _, ok := m.(*File); return ok }},
		{model.BackendMemory, func(m Medium) bool { _, ok := m.(*Memory); return ok }},
		{model.BackendSQLite, func(m Medium) bool {
			s, ok := m.(*SQLite)
			return ok && s.Path() == paths.SQLitePath()
		}},
	}

	for _, tt := range tests {
		m, err := Open(ctx, model.StorageConfig{Backend: tt.backend}, paths)
		if err != nil {
			t.Errorf("Open(%q) failed: %v", tt.backend, err)
			continue
		}
		if !tt.check(m) {
			t.Errorf("Open(%q) returned %T", tt.backend, m)
		}
		m.Close()
	}

	if _, err := Open(ctx, model.StorageConfig{Backend: "floppy"}, paths); err == nil {
		t.Error("Expected error for unknown backend")
	}
	if _, err := Open(ctx, model.StorageConfig{Backend: model.BackendS3}, paths); err == nil {
		t.Error("Expected error for s3 without bucket")
	}
}

func TestOpen_RelativeSQLitePath(t *testing.T) {
	home := t.TempDir()
	m, err := Open(context.Background(),
		model.StorageConfig{Backend: model.BackendSQLite, Path: "cards.db"},
		config.NewPaths(home, ""))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	if got := m.(*SQLite).Path(); got != filepath.Join(home, "cards.db") {
		t.Errorf("Path = %q", got)
	}
}

func TestFileDir(t *testing.T) {
	paths := config.NewPaths("/home/plank", "")

	tests := []struct {
		cfg  model.StorageConfig
		want string
	}{
		{model.StorageConfig{}, paths.DataRoot()},
		{model.StorageConfig{Backend: model.BackendFile, Path: "/srv/cards"}, "/srv/cards"},
		{model.StorageConfig{Backend: model.BackendSQLite}, ""},
		{model.StorageConfig{Backend: model.BackendS3}, ""},
	}
	for _, tt := range tests {
		if got := FileDir(tt.cfg, paths); got != tt.want {
			t.Errorf("FileDir(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}
