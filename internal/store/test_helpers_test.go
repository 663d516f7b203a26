package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/times/internal/ir"
)

// createTestStore creates a new file-backed store in a temp dir.
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

// stampedDelete builds a DELETE_POST action as the state store would stamp it.
func stampedDelete(id, postID string, seq int64) ir.Action {
	return ir.Action{ID: id, Type: ir.ActionDeletePost, Payload: postID, Seq: seq}
}

// reduceDelete is a minimal reducer so these tests do not depend on package state.
func reduceDelete(s ir.State, a ir.Action) ir.State {
	if a.Type != ir.ActionDeletePost {
		return s
	}
	var posts []ir.Post
	for _, p := range s.Posts {
		if p.ID != a.Payload {
			posts = append(posts, p)
		}
	}
	return ir.State{Posts: posts}
}
