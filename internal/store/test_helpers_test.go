package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/navsplit/internal/model"
)

// createTestStore opens a fresh database under t.TempDir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testPlayer(name string) model.Player {
	return model.NewPlayer(model.SeedID(model.KindPlayer, name), name)
}
