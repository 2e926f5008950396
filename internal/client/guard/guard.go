// Package guard decides whether a page (a CLI command, here) may be shown
// for the current session or where the user should be sent instead.
package guard

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/policyinsight/internal/client/session"
)

// Policy selects which sessions a guarded page admits.
type Policy int

const (
	// RequireAuthenticated admits logged-in users and sends others to login.
	RequireAuthenticated Policy = iota
	// RequireGuest admits anonymous users and sends logged-in ones home.
	RequireGuest
)

func (p Policy) String() string {
	if p == RequireGuest {
		return "guest"
	}
	return "authenticated"
}

const (
	DefaultLoginPath = "/login"
	DefaultHomePath  = "/dashboard"
)

type Outcome int

const (
	Pending Outcome = iota
	Render
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "pending"
	}
}

// Decision is the result of evaluating a guard. Target is set for Redirect.
type Decision struct {
	Outcome Outcome
	Target  string
}

// SessionChecker reports whether persisted credentials exist.
// *tokenstore.Store implements it.
type SessionChecker interface {
	HasSession(ctx context.Context) bool
}

type Guard struct {
	policy    Policy
	state     *session.State
	store     SessionChecker
	loginPath string
	homePath  string

	mu    sync.Mutex
	ready bool
}

type Option func(*Guard)

func WithLoginPath(path string) Option {
	return func(g *Guard) { g.loginPath = path }
}

func WithHomePath(path string) Option {
	return func(g *Guard) { g.homePath = path }
}

func New(policy Policy, state *session.State, store SessionChecker, opts ...Option) *Guard {
	g := &Guard{
		policy:    policy,
		state:     state,
		store:     store,
		loginPath: DefaultLoginPath,
		homePath:  DefaultHomePath,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) Policy() Policy {
	return g.policy
}

// MarkReady records that the credential store has reported its state once.
// Until then Evaluate returns Pending.
func (g *Guard) MarkReady() {
	g.mu.Lock()
	g.ready = true
	g.mu.Unlock()
}

func (g *Guard) isReady() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ready
}

func (g *Guard) Evaluate(ctx context.Context) Decision {
	if !g.isReady() {
		return Decision{Outcome: Pending}
	}

	loggedIn := g.state.IsAuthenticated() || g.store.HasSession(ctx)

	switch g.policy {
	case RequireGuest:
		if loggedIn {
			return Decision{Outcome: Redirect, Target: g.homePath}
		}
	default:
		if !loggedIn {
			return Decision{Outcome: Redirect, Target: g.loginPath}
		}
	}
	return Decision{Outcome: Render}
}

// Watch evaluates the guard now and again after every State change, calling
// fn whenever the decision differs from the previous one. It stops when ctx
// is done or stop is called. Calls to fn are serialized and arrive in
// evaluation order; fn must not change State itself.
func (g *Guard) Watch(ctx context.Context, fn func(Decision)) (stop func()) {
	var (
		mu   sync.Mutex
		last Decision
		seen bool
	)

	report := func() {
		mu.Lock()
		defer mu.Unlock()
		d := g.Evaluate(ctx)
		if seen && d == last {
			return
		}
		last, seen = d, true
		fn(d)
	}

	unsubscribe := g.state.Subscribe(func(*session.User) {
		if ctx.Err() == nil {
			report()
		}
	})
	report()

	var once sync.Once
	stop = func() { once.Do(unsubscribe) }

	go func() {
		<-ctx.Done()
		stop()
	}()
	return stop
}
