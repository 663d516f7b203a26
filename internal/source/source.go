// Package source fetches posts from the external REST data source.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/times/internal/ir"
)

// ErrNotFound is returned by GetPost when the id does not exist.
var ErrNotFound = errors.New("post not found")

// Source is the external collaborator that yields posts.
type Source interface {
	ListPosts(ctx context.Context) ([]ir.Post, error)
	GetPost(ctx context.Context, id string) (ir.Post, error)
}

// Limit returns at most the first n posts. n <= 0 means no limit.
func Limit(posts []ir.Post, n int) []ir.Post {
	if n <= 0 || len(posts) <= n {
		return posts
	}
	return posts[:n]
}

// Seed performs the one initial network load used to seed the state store.
// The result is limited to n posts and validated for unique ids.
func Seed(ctx context.Context, src Source, n int) (ir.State, error) {
	posts, err := src.ListPosts(ctx)
	if err != nil {
		return ir.State{}, fmt.Errorf("seed from source: %w", err)
	}

	s := ir.State{Posts: Limit(posts, n)}.Clone()
	if errs := ir.ValidateState(s); len(errs) > 0 {
		return ir.State{}, fmt.Errorf("seed from source: %w", errs[0])
	}
	return s, nil
}

// Static is an in-memory Source. It is used for demos and tests.
type Static struct {
	Posts []ir.Post
	// Err, when set, is returned by every call.
	Err error
}

// ListPosts returns a copy of the configured posts.
func (s Static) ListPosts(ctx context.Context) ([]ir.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]ir.Post, len(s.Posts))
	copy(out, s.Posts)
	return out, nil
}

// GetPost returns the configured post with the given id, or ErrNotFound.
func (s Static) GetPost(ctx context.Context, id string) (ir.Post, error) {
	if err := ctx.Err(); err != nil {
		return ir.Post{}, err
	}
	if s.Err != nil {
		return ir.Post{}, s.Err
	}
	for _, p := range s.Posts {
		if p.ID == id {
			return p, nil
		}
	}
	return ir.Post{}, fmt.Errorf("get post %q: %w", id, ErrNotFound)
}
