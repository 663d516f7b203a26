package view

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/times/internal/ir"
	"github.com/roach88/times/internal/route"
	"github.com/roach88/times/internal/source"
)

func storePages(t *testing.T, posts []ir.Post) (*Pages, *fakeEffects) {
	t.Helper()
	p, err := NewPages(Config{Mode: ModeStore, Store: newStore(t, posts), Rand: &fixedRand{}})
	require.NoError(t, err)
	return p, &fakeEffects{}
}

func fetchPages(t *testing.T, src source.Source) (*Pages, *fakeEffects) {
	t.Helper()
	p, err := NewPages(Config{Mode: ModeFetch, Source: src, Rand: &fixedRand{}})
	require.NoError(t, err)
	return p, &fakeEffects{}
}

func TestNewPages_Validation(t *testing.T) {
	_, err := NewPages(Config{Mode: ModeStore})
	assert.Error(t, err)
	_, err = NewPages(Config{Mode: ModeFetch})
	assert.Error(t, err)
	_, err = NewPages(Config{Mode: "offline", Source: source.Static{}})
	assert.Error(t, err)
}

func TestPages_Routes(t *testing.T) {
	p, _ := storePages(t, ir.DefaultPosts())
	routes := p.Routes()
	for _, name := range []string{route.Home, route.About, route.Contact, route.Post} {
		assert.NotNil(t, routes[name], name)
	}
}

func TestStoreHome_ListsEveryPost(t *testing.T) {
	p, fx := storePages(t, ir.DefaultPosts())
	_, router := routed("/")

	html := mustRender(t, p.Home.Mount(Props{Router: router, Effects: fx}))
	for _, id := range []string{"1", "2", "3"} {
		assert.Contains(t, html, `href="/`+id+`"`)
	}
	assert.Contains(t, html, "qui est esse")
	assert.Contains(t, html, `src="/static/logo.svg"`)
	assert.NotContains(t, html, "No posts yet.")
}

func TestStoreHome_FollowsDispatch(t *testing.T) {
	store := newStore(t, ir.DefaultPosts())
	p, err := NewPages(Config{Store: store, Rand: &fixedRand{}})
	require.NoError(t, err)
	fx := &fakeEffects{}

	v := p.Home.Mount(Props{Effects: fx})
	store.Dispatch(ir.DeletePost("2"))

	html := mustRender(t, v)
	assert.Contains(t, html, `href="/1"`)
	assert.NotContains(t, html, `href="/2"`)
	assert.Contains(t, html, `href="/3"`)

	v.(Unmounter).Unmount()
	store.Dispatch(ir.DeletePost("1"))
	assert.Contains(t, mustRender(t, v), `href="/1"`)
}

var cardHref = regexp.MustCompile(`<a href="([^"]*)"><span class="card-title`)

func TestStoreHome_LinksResolveToTheirPost(t *testing.T) {
	ids := []string{"a/b", "a?b", "a#b", "a b", "7"}
	posts := make([]ir.Post, len(ids))
	for i, id := range ids {
		posts[i] = ir.Post{ID: id, Title: "t" + id}
	}
	p, fx := storePages(t, posts)

	html := mustRender(t, p.Home.Mount(Props{Effects: fx}))
	links := cardHref.FindAllStringSubmatch(html, -1)
	require.Len(t, links, len(ids))

	table := route.NewTable()
	for i, id := range ids {
		m := table.Resolve(links[i][1])
		assert.Equal(t, route.Post, m.Route.Name, id)
		assert.Equal(t, id, m.Param(route.ParamPostID), "href %q", links[i][1])
	}
}

func TestPostHref(t *testing.T) {
	assert.Equal(t, "/2", PostHref("2"))
	assert.Equal(t, "/a%2Fb", PostHref("a/b"))
	assert.Equal(t, "/a%3Fb", PostHref("a?b"))
}

func TestStoreHome_Empty(t *testing.T) {
	p, fx := storePages(t, nil)
	assert.Contains(t, mustRender(t, p.Home.Mount(Props{Effects: fx})), "No posts yet.")
}

func TestStoreHome_TruncatesBody(t *testing.T) {
	body := strings.Repeat("a", 200)
	p, fx := storePages(t, []ir.Post{{ID: "1", Title: "t", Body: body}})
	html := mustRender(t, p.Home.Mount(Props{Effects: fx}))
	assert.Contains(t, html, strings.Repeat("a", DefaultExcerptRunes)+"…")
	assert.NotContains(t, html, strings.Repeat("a", DefaultExcerptRunes+1))
}

func TestFetchHome_FirstTen(t *testing.T) {
	p, fx := fetchPages(t, source.Static{Posts: numberedPosts(15)})

	v := p.Home.Mount(Props{Effects: fx})
	assert.Contains(t, mustRender(t, v), "No posts yet.")

	fx.run()
	html := mustRender(t, v)
	assert.Contains(t, html, `href="/10"`)
	assert.NotContains(t, html, `href="/11"`)
	assert.Equal(t, 10, strings.Count(html, `class="post card"`))
}

func TestFetchHome_Failure(t *testing.T) {
	p, fx := fetchPages(t, source.Static{Err: errors.New("offline")})
	v := p.Home.Mount(Props{Effects: fx})
	fx.run()
	assert.Contains(t, mustRender(t, v), "Could not load posts.")
}

func TestStorePost_ShowsPost(t *testing.T) {
	p, fx := storePages(t, ir.DefaultPosts())
	_, router := routed("/2")

	html := mustRender(t, p.Post.Mount(Props{Router: router, Effects: fx}))
	assert.Contains(t, html, "eum et est occaecati")
	assert.Contains(t, html, `action="/2"`)
	assert.Contains(t, html, `value="delete"`)
}

func TestStorePost_EscapedIDFormTarget(t *testing.T) {
	p, fx := storePages(t, []ir.Post{{ID: "a/b", Title: "slashed"}})
	_, router := routed(PostHref("a/b"))

	html := mustRender(t, p.Post.Mount(Props{Router: router, Effects: fx}))
	assert.Contains(t, html, "slashed")
	assert.Contains(t, html, `action="/a%2Fb"`)
}

func TestStorePost_DeleteDispatchesAndNavigatesHome(t *testing.T) {
	store := newStore(t, ir.DefaultPosts())
	p, err := NewPages(Config{Store: store, Rand: &fixedRand{}})
	require.NoError(t, err)
	history, router := routed("/2")

	v := p.Post.Mount(Props{Router: router, Effects: &fakeEffects{}})
	require.NoError(t, v.(Handler).Handle(EventDelete))

	assert.Equal(t, []string{"1", "3"}, store.GetState().PostIDs())
	assert.Equal(t, "/", history.Location())
	assert.Contains(t, mustRender(t, v), "Post not found.")
}

func TestStorePost_NotFound(t *testing.T) {
	p, fx := storePages(t, ir.DefaultPosts())
	_, router := routed("/99")

	v := p.Post.Mount(Props{Router: router, Effects: fx})
	html := mustRender(t, v)
	assert.Contains(t, html, "Post not found.")
	assert.NotContains(t, html, "Delete Post")
	assert.ErrorIs(t, v.(Handler).Handle(EventDelete), ErrUnhandled)
}

func TestStorePost_UnknownEvent(t *testing.T) {
	p, fx := storePages(t, ir.DefaultPosts())
	_, router := routed("/1")
	v := p.Post.Mount(Props{Router: router, Effects: fx})
	assert.ErrorIs(t, v.(Handler).Handle("like"), ErrUnhandled)
}

func TestFetchPost_States(t *testing.T) {
	tests := []struct {
		name string
		src  source.Source
		path string
		want string
	}{
		{"ready", source.Static{Posts: numberedPosts(3)}, "/2", "title 2"},
		{"not found", source.Static{Posts: numberedPosts(3)}, "/7", "Post not found."},
		{"failed", source.Static{Err: errors.New("offline")}, "/2", "Could not load post."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, fx := fetchPages(t, tt.src)
			_, router := routed(tt.path)

			v := p.Post.Mount(Props{Router: router, Effects: fx})
			assert.Contains(t, mustRender(t, v), "Loading post...")

			fx.run()
			html := mustRender(t, v)
			assert.Contains(t, html, tt.want)
			assert.NotContains(t, html, "Delete Post")
		})
	}
}

func TestAbout_IsDecorated(t *testing.T) {
	p, fx := storePages(t, nil)
	html := mustRender(t, p.About.Mount(Props{Effects: fx}))
	assert.True(t, strings.HasPrefix(html, `<div class="red-text">`))
	assert.Contains(t, html, "About")
	assert.Contains(t, html, "<em>small</em>")
}

func TestContact_SchedulesRedirect(t *testing.T) {
	p, fx := storePages(t, nil)
	history, router := routed("/contact")

	v := p.Contact.Mount(Props{Router: router, Effects: fx})
	html := mustRender(t, v)
	assert.Contains(t, html, "<strong>")
	assert.Contains(t, html, "newsroom@advantech.example")

	require.Len(t, fx.timers, 1)
	assert.Equal(t, 2000*time.Millisecond, fx.timers[0].after)
	assert.Equal(t, "/contact", history.Location())

	fx.timers[0].fn()
	assert.Equal(t, "/about", history.Location())

	assert.Equal(t, &Refresh{Seconds: 2, URL: "/about"}, RefreshFor(v))
}

func TestContact_CustomDelay(t *testing.T) {
	p, err := NewPages(Config{Store: newStore(t, nil), RedirectDelay: 1500 * time.Millisecond, Rand: &fixedRand{}})
	require.NoError(t, err)
	fx := &fakeEffects{}
	_, router := routed("/contact")

	v := p.Contact.Mount(Props{Router: router, Effects: fx})
	require.Len(t, fx.timers, 1)
	assert.Equal(t, 1500*time.Millisecond, fx.timers[0].after)
	assert.Equal(t, 2, RefreshFor(v).Seconds)
}
