package state

import "github.com/roach88/times/internal/ir"

// Reducer computes the next state from the current state and an action.
// A Reducer must be pure: it never mutates its input.
type Reducer func(ir.State, ir.Action) ir.State

// Reduce is the application reducer.
//
// Unknown action types return the state unchanged. DELETE_POST returns a new
// State whose post list excludes every record with id == payload; the input
// slice and its backing array are left untouched.
func Reduce(s ir.State, a ir.Action) ir.State {
	switch a.Type {
	case ir.ActionDeletePost:
		return deletePost(s, a.Payload)
	default:
		return s
	}
}

func deletePost(s ir.State, id string) ir.State {
	posts := make([]ir.Post, 0, len(s.Posts))
	for _, p := range s.Posts {
		if p.ID == id {
			continue
		}
		posts = append(posts, p)
	}
	return ir.State{Posts: posts}
}
