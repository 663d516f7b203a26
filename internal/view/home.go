package view

import (
	"context"
	"html/template"
	"net/url"

	"github.com/roach88/times/internal/ir"
	"github.com/roach88/times/internal/source"
	"github.com/roach88/times/internal/state"
)

// PostHref is the detail location of the post with id. The id is escaped
// as a single path segment so it resolves back to the same post.
func PostHref(id string) string {
	return "/" + url.PathEscape(id)
}

type card struct {
	ID      string
	Title   string
	Href    string
	Excerpt string
	Logo    string
}

type homeData struct {
	Brand string
	Cards []card
	Error string
}

func renderHome(posts []ir.Post, excerpt int, failed bool) (template.HTML, error) {
	data := homeData{Brand: Brand}
	if failed {
		data.Error = "Could not load posts."
		return render("home.html", data)
	}
	for _, p := range posts {
		data.Cards = append(data.Cards, card{
			ID:      p.ID,
			Title:   p.Title,
			Href:    PostHref(p.ID),
			Excerpt: Excerpt(p.Body, excerpt),
			Logo:    LogoPath,
		})
	}
	return render("home.html", data)
}

// storeHome lists every post held by the state container and follows
// later dispatches.
type storeHome struct {
	store   *state.Store
	excerpt int
}

func (h *storeHome) Mount(props Props) View {
	v := &storeHomeView{excerpt: h.excerpt, posts: h.store.GetState().Posts}
	v.unsubscribe = h.store.Subscribe(func(s ir.State) {
		props.Effects.Post(func() { v.posts = s.Posts })
	})
	return v
}

type storeHomeView struct {
	excerpt     int
	posts       []ir.Post
	unsubscribe func()
}

func (v *storeHomeView) Render() (template.HTML, error) {
	return renderHome(v.posts, v.excerpt, false)
}

func (v *storeHomeView) Unmount() {
	v.unsubscribe()
}

// fetchHome loads the post list from the source on mount.
type fetchHome struct {
	src     source.Source
	limit   int
	excerpt int
}

func (h *fetchHome) Mount(props Props) View {
	v := &fetchHomeView{excerpt: h.excerpt}
	props.Effects.Go(func(ctx context.Context) func() {
		posts, err := h.src.ListPosts(ctx)
		return func() {
			if err != nil {
				v.failed = true
				return
			}
			v.posts = source.Limit(posts, h.limit)
		}
	})
	return v
}

type fetchHomeView struct {
	excerpt int
	posts   []ir.Post
	failed  bool
}

func (v *fetchHomeView) Render() (template.HTML, error) {
	return renderHome(v.posts, v.excerpt, v.failed)
}
