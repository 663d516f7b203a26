package ir

// Post is a single news record.
type Post struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// State is the whole application state held by the store.
// Posts are kept in insertion order, which is also display order.
type State struct {
	Posts []Post `json:"posts"`
}

// FindPost returns the post with the given id.
func (s State) FindPost(id string) (Post, bool) {
	for _, p := range s.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

// PostIDs returns the ids of all posts in display order.
func (s State) PostIDs() []string {
	ids := make([]string, len(s.Posts))
	for i, p := range s.Posts {
		ids[i] = p.ID
	}
	return ids
}

// Clone returns a State with its own copy of the post slice.
func (s State) Clone() State {
	posts := make([]Post, len(s.Posts))
	copy(posts, s.Posts)
	return State{Posts: posts}
}

// DefaultPosts returns the hardcoded seed records.
func DefaultPosts() []Post {
	return []Post{
		{
			ID:    "1",
			Title: "qui est esse",
			Body:  "est rerum tempore vitae sequi sint nihil reprehenderit dolor beatae ea dolores neque fugiat blanditiis voluptate porro vel nihil molestiae ut reiciendis qui aperiam non debitis possimus qui neque nisi nulla",
		},
		{
			ID:    "2",
			Title: "eum et est occaecati",
			Body:  "ullam et saepe reiciendis voluptatem adipisci sit amet autem assumenda provident rerum culpa quis hic commodi nesciunt rem tenetur doloremque ipsam iure quis sunt voluptatem rerum illo velit",
		},
		{
			ID:    "3",
			Title: "nesciunt quas odio",
			Body:  "repudiandae veniam quaerat sunt sed alias aut fugiat sit autem sed est voluptatem omnis possimus esse voluptatibus quis est aut tenetur dolor neque",
		},
	}
}

// DefaultState returns a State seeded with DefaultPosts.
func DefaultState() State {
	return State{Posts: DefaultPosts()}
}

// Navigation records one location change of a browsing session.
type Navigation struct {
	Session string `json:"session"`
	Seq     int64  `json:"seq"`
	Path    string `json:"path"`
	Route   string `json:"route"`
}
