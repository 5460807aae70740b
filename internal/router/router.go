// Package router decides which location a session may enter and runs the
// location's setup and render hooks once it is admitted.
package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-portal-go/internal/session"
)

// Guard names the check that turned a navigation away.
type Guard string

const (
	GuardPendingVerification  Guard = "pending_verification"
	GuardAlreadyAuthenticated Guard = "already_authenticated"
	GuardAuthentication       Guard = "authentication"
	GuardAdminOnly            Guard = "admin_only"
	GuardUserOnly             Guard = "user_only"
)

const defaultMaxHops = 4

var ErrRedirectLoop = errors.New("navigation redirected too many times")

// SetupFunc fills display fields before rendering, e.g. the pending email on verify-email.
type SetupFunc func(ctx context.Context, s *session.Session) (map[string]string, error)

// RenderFunc produces the view payload for an admitted location.
type RenderFunc func(ctx context.Context, s *session.Session) (any, error)

// Decision is the outcome of running the guards for one location.
type Decision struct {
	Location Location
	Admitted bool
	Redirect Location
	Guard    Guard
	Notice   *Notice
}

type Page struct {
	Location Location          `json:"location"`
	Fields   map[string]string `json:"fields,omitempty"`
	View     any               `json:"view,omitempty"`
}

// Result describes a finished navigation.
type Result struct {
	Requested Location   `json:"requested"`
	Page      Page       `json:"page"`
	Redirects []Location `json:"redirects,omitempty"`
}

type Router struct {
	routes  map[Location]*Route
	maxHops int
}

func New() *Router {
	r := &Router{
		routes:  defaultRoutes(),
		maxHops: defaultMaxHops,
	}
	r.routes[VerifyEmail].setup = pendingEmailSetup
	return r
}

// Render registers the render callback of loc.
func (r *Router) Render(loc Location, fn RenderFunc) {
	if route, ok := r.routes[loc]; ok {
		route.render = fn
	}
}

// Setup registers the setup hook of loc, replacing any default.
func (r *Router) Setup(loc Location, fn SetupFunc) {
	if route, ok := r.routes[loc]; ok {
		route.setup = fn
	}
}

func (r *Router) Route(loc Location) (Route, bool) {
	route, ok := r.routes[loc]
	if !ok {
		return Route{}, false
	}
	return *route, true
}

// Check runs the guards for loc in order and reports the first failure.
// It never changes the session.
func (r *Router) Check(ctx context.Context, s *session.Session, loc Location) (Decision, error) {
	route, ok := r.routes[loc]
	if !ok {
		loc = Home
		route = r.routes[Home]
	}

	if loc == VerifyEmail {
		_, pending, err := s.PendingEmail(ctx)
		if err != nil {
			return Decision{}, err
		}
		if !pending {
			return redirect(loc, Register, GuardPendingVerification, nil), nil
		}
	}

	identity, authenticated := s.Identity()

	if authenticated && (loc == Home || loc == Login || loc == Register) {
		return redirect(loc, Profile, GuardAlreadyAuthenticated, nil), nil
	}

	if route.Auth && !authenticated {
		return redirect(loc, Login, GuardAuthentication, nil), nil
	}

	if route.AdminOnly && !identity.IsAdmin() {
		return redirect(loc, Profile, GuardAdminOnly, &Notice{Message: MessageAdminsOnly, Severity: SeverityDanger}), nil
	}

	if route.UserOnly && identity.IsAdmin() {
		return redirect(loc, AdminRequests, GuardUserOnly, &Notice{Message: MessageUseAdmin, Severity: SeverityInfo}), nil
	}

	return Decision{Location: loc, Admitted: true}, nil
}

// Navigate resolves token, follows guard redirects and enters the location it
// lands on. Each redirect is a new navigation with its own guard run.
func (r *Router) Navigate(ctx context.Context, s *session.Session, token string, n Notifier) (Result, error) {
	if n == nil {
		n = Discard
	}

	requested := Parse(token)
	result := Result{Requested: requested}

	loc := requested
	for hop := 0; ; hop++ {
		if hop > r.maxHops {
			return Result{}, fmt.Errorf("%w: %s", ErrRedirectLoop, requested)
		}

		decision, err := r.Check(ctx, s, loc)
		if err != nil {
			return Result{}, err
		}
		if decision.Admitted {
			break
		}

		metrics.GuardRedirects.WithLabelValues(string(decision.Guard)).Inc()
		if decision.Notice != nil {
			n.Notify(decision.Notice.Message, decision.Notice.Severity)
		}
		result.Redirects = append(result.Redirects, decision.Redirect)
		loc = decision.Redirect
	}

	page, err := r.enter(ctx, s, loc)
	if err != nil {
		return Result{}, err
	}
	result.Page = page

	outcome := "entered"
	if len(result.Redirects) > 0 {
		outcome = "redirected"
	}
	metrics.Navigations.WithLabelValues(string(requested), outcome).Inc()

	return result, nil
}

func (r *Router) enter(ctx context.Context, s *session.Session, loc Location) (Page, error) {
	route := r.routes[loc]
	page := Page{Location: loc}

	if route.setup != nil {
		fields, err := route.setup(ctx, s)
		if err != nil {
			return Page{}, fmt.Errorf("setup %s: %w", loc, err)
		}
		page.Fields = fields
	}
	if route.render != nil {
		view, err := route.render(ctx, s)
		if err != nil {
			return Page{}, fmt.Errorf("render %s: %w", loc, err)
		}
		page.View = view
	}

	s.SetLocation(string(loc))
	return page, nil
}

func redirect(from, to Location, guard Guard, notice *Notice) Decision {
	return Decision{Location: from, Redirect: to, Guard: guard, Notice: notice}
}

func pendingEmailSetup(ctx context.Context, s *session.Session) (map[string]string, error) {
	email, _, err := s.PendingEmail(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{"email": email}, nil
}
