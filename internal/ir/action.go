package ir

import (
	"fmt"
)

// ActionType tags an Action.
type ActionType string

const (
	// ActionDeletePost removes the post whose id equals the payload.
	ActionDeletePost ActionType = "DELETE_POST"
)

// KnownActionTypes lists every action type the reducer understands.
var KnownActionTypes = []ActionType{ActionDeletePost}

// Action is a tagged state transition request.
//
// ID and Seq are zero until the store stamps the action on dispatch.
type Action struct {
	ID      string     `json:"id,omitempty"`
	Type    ActionType `json:"type"`
	Payload string     `json:"payload"`
	Seq     int64      `json:"seq,omitempty"`
}

// DeletePost builds a DELETE_POST action for the given post id.
func DeletePost(id string) Action {
	return Action{Type: ActionDeletePost, Payload: id}
}

// Known reports whether the reducer handles this action type.
func (t ActionType) Known() bool {
	for _, k := range KnownActionTypes {
		if k == t {
			return true
		}
	}
	return false
}

// ValidationError represents a validation error with field path and message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateState checks that every post has a non-empty, unique id.
// Returns all errors (not fail-fast) so a bad seed is reported in one pass.
func ValidateState(s State) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]int, len(s.Posts))
	for i, p := range s.Posts {
		if p.ID == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("posts[%d].id", i),
				Message: "id is required",
			})
			continue
		}
		if first, dup := seen[p.ID]; dup {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("posts[%d].id", i),
				Message: fmt.Sprintf("duplicate id %q (first seen at posts[%d])", p.ID, first),
			})
			continue
		}
		seen[p.ID] = i
	}

	return errs
}
