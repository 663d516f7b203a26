package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/times/internal/ir"
)

func TestLimit(t *testing.T) {
	posts := make([]ir.Post, 15)

	assert.Len(t, Limit(posts, 10), 10)
	assert.Len(t, Limit(posts, 20), 15)
	assert.Len(t, Limit(posts, 0), 15)
	assert.Len(t, Limit(nil, 10), 0)
}

func TestStatic(t *testing.T) {
	src := Static{Posts: ir.DefaultPosts()}
	ctx := context.Background()

	posts, err := src.ListPosts(ctx)
	require.NoError(t, err)
	posts[0].Title = "changed"

	p, err := src.GetPost(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "qui est esse", p.Title)

	_, err = src.GetPost(ctx, "9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatic_Err(t *testing.T) {
	boom := errors.New("offline")
	src := Static{Err: boom}

	_, err := src.ListPosts(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = src.GetPost(context.Background(), "1")
	assert.ErrorIs(t, err, boom)
}

func TestSeed(t *testing.T) {
	posts := make([]ir.Post, 12)
	for i := range posts {
		posts[i] = ir.Post{ID: string(rune('a' + i))}
	}

	s, err := Seed(context.Background(), Static{Posts: posts}, 10)
	require.NoError(t, err)
	assert.Len(t, s.Posts, 10)
	assert.Equal(t, "a", s.Posts[0].ID)
}

func TestSeed_RejectsDuplicateIDs(t *testing.T) {
	_, err := Seed(context.Background(), Static{Posts: []ir.Post{{ID: "1"}, {ID: "1"}}}, 10)
	assert.ErrorContains(t, err, "duplicate id")
}

func TestSeed_SourceError(t *testing.T) {
	_, err := Seed(context.Background(), Static{Err: errors.New("offline")}, 10)
	assert.ErrorContains(t, err, "offline")
}
