package view

import (
	"context"
	"errors"
	"html/template"

	"github.com/roach88/times/internal/ir"
	"github.com/roach88/times/internal/route"
	"github.com/roach88/times/internal/source"
	"github.com/roach88/times/internal/state"
)

// EventDelete removes the displayed post.
const EventDelete = "delete"

type loadStatus string

const (
	statusLoading  loadStatus = "loading"
	statusReady    loadStatus = "ready"
	statusNotFound loadStatus = "not_found"
	statusFailed   loadStatus = "failed"
)

type postData struct {
	Status      loadStatus
	Post        ir.Post
	CanDelete   bool
	Action      string
	DeleteEvent string
}

func postID(props Props) string {
	if props.Router == nil {
		return ""
	}
	return props.Router.Param(route.ParamPostID)
}

// storePost shows one post from the state container and can delete it.
type storePost struct {
	store *state.Store
}

func (p *storePost) Mount(props Props) View {
	v := &storePostView{props: props, store: p.store, id: postID(props)}
	v.apply(p.store.GetState())
	v.unsubscribe = p.store.Subscribe(func(s ir.State) {
		props.Effects.Post(func() { v.apply(s) })
	})
	return v
}

type storePostView struct {
	props       Props
	store       *state.Store
	id          string
	post        ir.Post
	status      loadStatus
	unsubscribe func()
}

func (v *storePostView) apply(s ir.State) {
	if post, ok := s.FindPost(v.id); ok {
		v.post, v.status = post, statusReady
		return
	}
	v.post, v.status = ir.Post{}, statusNotFound
}

func (v *storePostView) Render() (template.HTML, error) {
	data := postData{Status: v.status, Post: v.post, DeleteEvent: EventDelete}
	if v.status == statusReady {
		data.CanDelete = true
		data.Action = PostHref(v.id)
		if v.props.Router != nil {
			data.Action = v.props.Router.Match.Path
		}
	}
	return render("post.html", data)
}

// Handle dispatches the delete action and returns to the list.
func (v *storePostView) Handle(event string) error {
	if event != EventDelete || v.status != statusReady {
		return ErrUnhandled
	}
	v.store.Dispatch(ir.DeletePost(v.id))
	if v.props.Router != nil {
		v.props.Router.Navigate("/")
	}
	return nil
}

func (v *storePostView) Unmount() {
	v.unsubscribe()
}

// fetchPost loads one post from the source on mount.
type fetchPost struct {
	src source.Source
}

func (p *fetchPost) Mount(props Props) View {
	v := &fetchPostView{status: statusLoading}
	id := postID(props)
	props.Effects.Go(func(ctx context.Context) func() {
		post, err := p.src.GetPost(ctx, id)
		return func() {
			switch {
			case errors.Is(err, source.ErrNotFound):
				v.status = statusNotFound
			case err != nil:
				v.status = statusFailed
			default:
				v.post, v.status = post, statusReady
			}
		}
	})
	return v
}

type fetchPostView struct {
	post   ir.Post
	status loadStatus
}

func (v *fetchPostView) Render() (template.HTML, error) {
	return render("post.html", postData{Status: v.status, Post: v.post})
}
