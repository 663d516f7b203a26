package view

import (
	"context"
	"errors"
	"html/template"
	"time"

	"github.com/roach88/times/internal/route"
)

// ErrUnhandled is returned by Handle when a view does not react to an event.
var ErrUnhandled = errors.New("event not handled")

// Effects is the capability a view uses to schedule work on its session's
// event loop. Every callback is dropped if the view has been unmounted by
// the time it would run.
type Effects interface {
	// Go runs work off the loop. The returned continuation, if non-nil,
	// runs on the loop. ctx is cancelled when the view unmounts.
	Go(work func(ctx context.Context) func())

	// After runs fn on the loop once d has elapsed. The timer is stopped
	// when the view unmounts.
	After(d time.Duration, fn func())

	// Post runs fn on the loop as soon as possible. Safe to call from any
	// goroutine, for example a store listener.
	Post(fn func())
}

// Props are the inputs of a mount.
type Props struct {
	// Router is the navigation capability. It is nil unless the component
	// was selected by the route table or granted one with route.WithRouter.
	Router *route.Context

	// Effects schedules work on the owning session.
	Effects Effects

	// Attrs are caller-supplied properties, forwarded untouched by decorators.
	Attrs map[string]string
}

// Component is a mountable view factory.
type Component interface {
	Mount(props Props) View
}

// ComponentFunc adapts a function into a Component.
type ComponentFunc func(Props) View

// Mount calls f(props).
func (f ComponentFunc) Mount(props Props) View {
	return f(props)
}

// View is one mounted instance of a Component.
type View interface {
	Render() (template.HTML, error)
}

// Unmounter is implemented by views that hold resources past Mount.
type Unmounter interface {
	Unmount()
}

// Handler is implemented by views that react to UI events such as a
// button press. Unknown events return ErrUnhandled.
type Handler interface {
	Handle(event string) error
}

// Refresher is implemented by views that will move the session to another
// location on their own. The HTML layout turns it into a meta refresh so
// plain browsers follow along.
type Refresher interface {
	Refresh() (to string, after time.Duration, ok bool)
}

// RenderFunc adapts a function into a View.
type RenderFunc func() (template.HTML, error)

// Render calls f().
func (f RenderFunc) Render() (template.HTML, error) {
	return f()
}

// Static builds a stateless Component from a render function.
func Static(render func(Props) (template.HTML, error)) Component {
	return ComponentFunc(func(p Props) View {
		return RenderFunc(func() (template.HTML, error) {
			return render(p)
		})
	})
}
