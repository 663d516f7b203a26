package view

import (
	"html/template"
	"math/rand/v2"
	"time"
)

// Colors are the labels Rainbow picks from.
var Colors = []string{"red", "pink", "blue", "yellow", "green", "orange"}

// Rand is the randomness Rainbow needs. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Rainbow wraps c so that every mount renders inside a container carrying
// a colour class. The colour is picked once, here, not per render or per
// mount. Props reach c unchanged, and the optional Unmounter, Handler and
// Refresher behaviour of c's views is preserved.
//
// A nil rng uses the math/rand/v2 global source.
func Rainbow(c Component, rng Rand) *Decorated {
	if rng == nil {
		rng = globalRand{}
	}
	return &Decorated{
		inner: c,
		class: Colors[rng.IntN(len(Colors))] + "-text",
	}
}

// Decorated is a Component wrapped by Rainbow.
type Decorated struct {
	inner Component
	class string
}

// Class returns the presentation class chosen at wrap time.
func (d *Decorated) Class() string {
	return d.class
}

// Mount mounts the wrapped component with the same props.
func (d *Decorated) Mount(props Props) View {
	return &decoratedView{inner: d.inner.Mount(props), class: d.class}
}

type decoratedView struct {
	inner View
	class string
}

var decoratedTmpl = template.Must(template.New("decorated").Parse(`<div class="{{.Class}}">{{.Inner}}</div>`))

func (v *decoratedView) Render() (template.HTML, error) {
	inner, err := v.inner.Render()
	if err != nil {
		return "", err
	}
	return execute(decoratedTmpl, struct {
		Class string
		Inner template.HTML
	}{v.class, inner})
}

func (v *decoratedView) Unmount() {
	if u, ok := v.inner.(Unmounter); ok {
		u.Unmount()
	}
}

func (v *decoratedView) Handle(event string) error {
	if h, ok := v.inner.(Handler); ok {
		return h.Handle(event)
	}
	return ErrUnhandled
}

func (v *decoratedView) Refresh() (string, time.Duration, bool) {
	if r, ok := v.inner.(Refresher); ok {
		return r.Refresh()
	}
	return "", 0, false
}
