package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/times/internal/route"
	"github.com/roach88/times/internal/source"
	"github.com/roach88/times/internal/state"
)

// Mode selects where the Home and Post pages get their posts.
type Mode string

const (
	// ModeStore reads posts from the shared state container.
	ModeStore Mode = "store"
	// ModeFetch loads posts from the external source on every mount.
	ModeFetch Mode = "fetch"
)

// Defaults used when Config leaves a field zero.
const (
	DefaultFetchLimit    = 10
	DefaultRedirectDelay = 2000 * time.Millisecond
)

// Config wires the pages to their data.
type Config struct {
	Mode Mode

	// Store is required in ModeStore.
	Store *state.Store
	// Source is required in ModeFetch.
	Source source.Source

	FetchLimit    int
	ExcerptRunes  int
	RedirectDelay time.Duration

	// Rand picks the About page colour. Nil uses math/rand/v2.
	Rand Rand
}

// Pages holds one component per route plus the navigation shell.
type Pages struct {
	Home    Component
	Post    Component
	About   *Decorated
	Contact Component
	Navbar  Component
}

// NewPages builds the page components for cfg.
func NewPages(cfg Config) (*Pages, error) {
	if cfg.FetchLimit == 0 {
		cfg.FetchLimit = DefaultFetchLimit
	}
	if cfg.ExcerptRunes == 0 {
		cfg.ExcerptRunes = DefaultExcerptRunes
	}
	if cfg.RedirectDelay == 0 {
		cfg.RedirectDelay = DefaultRedirectDelay
	}

	about, err := loadCopy("about.md")
	if err != nil {
		return nil, err
	}
	contact, err := loadCopy("contact.md")
	if err != nil {
		return nil, err
	}

	p := &Pages{
		About:   Rainbow(staticPage("About", about), cfg.Rand),
		Contact: &contactPage{body: contact, delay: cfg.RedirectDelay},
		Navbar:  Navbar{},
	}

	switch cfg.Mode {
	case ModeStore, "":
		if cfg.Store == nil {
			return nil, errors.New("store mode requires a state store")
		}
		p.Home = &storeHome{store: cfg.Store, excerpt: cfg.ExcerptRunes}
		p.Post = &storePost{store: cfg.Store}
	case ModeFetch:
		if cfg.Source == nil {
			return nil, errors.New("fetch mode requires a source")
		}
		p.Home = &fetchHome{src: cfg.Source, limit: cfg.FetchLimit, excerpt: cfg.ExcerptRunes}
		p.Post = &fetchPost{src: cfg.Source}
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	return p, nil
}

// Routes maps route names to the component rendered for them.
func (p *Pages) Routes() map[string]Component {
	return map[string]Component{
		route.Home:    p.Home,
		route.About:   p.About,
		route.Contact: p.Contact,
		route.Post:    p.Post,
	}
}
