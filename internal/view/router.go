package view

import (
	"sync"

	"aduan/internal/session"
)

// tier is the tagged variant the routing decision dispatches on. Every
// session state maps to exactly one tier, and every tier carries its own
// reachable-view table, so each fallback is explicit rather than an
// accident of branch ordering.
type tier int

const (
	tierLoading tier = iota
	tierAnonymous
	tierCitizen
	tierAdmin
)

func tierOf(sess session.Session, profile *session.Profile) tier {
	switch {
	case sess.Loading:
		return tierLoading
	case !sess.Authenticated || profile == nil:
		return tierAnonymous
	case profile.Role.IsAdmin():
		return tierAdmin
	default:
		return tierCitizen
	}
}

// tierRules is one tier's total routing table.
//
//   - reachable maps a recognized request to its resolved view (usually
//     itself; all-complaints resolving to the admin dashboard preserves the
//     observed portal behavior).
//   - detail lists payload-requiring views with the fallback used when the
//     payload is absent ("detail unavailable" degrades, it never errors).
//   - fallback catches everything else, including unknown identifiers.
type tierRules struct {
	reachable map[View]View
	detail    map[View]View
	fallback  View
}

func (r tierRules) resolve(req Request) View {
	if fb, ok := r.detail[req.View]; ok {
		if req.Payload != nil {
			return req.View
		}
		return fb
	}
	if resolved, ok := r.reachable[req.View]; ok {
		return resolved
	}
	return r.fallback
}

var rulesByTier = map[tier]tierRules{
	tierLoading: {
		fallback: Loading,
	},
	tierAnonymous: {
		reachable: map[View]View{
			Landing:  Landing,
			Login:    Login,
			Register: Register,
		},
		fallback: Landing,
	},
	tierCitizen: {
		reachable: map[View]View{
			Dashboard:       Dashboard,
			CreateComplaint: CreateComplaint,
			MyComplaints:    Dashboard,
			Settings:        Dashboard,
		},
		detail: map[View]View{
			ComplaintDetail: Dashboard,
		},
		fallback: Dashboard,
	},
	tierAdmin: {
		reachable: map[View]View{
			AdminDashboard: AdminDashboard,
			AllComplaints:  AdminDashboard,
			Statistics:     Statistics,
		},
		detail: map[View]View{
			AdminComplaintDetail: AdminDashboard,
		},
		fallback: AdminDashboard,
	},
}

// Resolve is the pure routing function: (session, profile, request) to the
// view actually shown. Total by construction; no input leaves the portal
// unrenderable.
func Resolve(sess session.Session, profile *session.Profile, req Request) View {
	return rulesByTier[tierOf(sess, profile)].resolve(req)
}

// InitialRequest is where navigation starts before anyone has asked for
// anything: the landing page (tier rules redirect it once signed in).
func InitialRequest() Request {
	return Request{View: Landing}
}

// SessionSource is the read-only slice of the session gate the router needs.
type SessionSource interface {
	CurrentSession() session.Session
	CurrentProfile() *session.Profile
}

// Metrics records routing outcomes.
type Metrics interface {
	IncrementResolved(tier string)
	IncrementFallbacks(tier string)
}

// Router holds the current navigation request and resolves it against live
// session state. Pages receive Router.Navigate as their onNavigate callback;
// a navigation is fire-and-forget, so callers get no commitment that the
// requested view rather than its fallback will be shown.
type Router struct {
	source  SessionSource
	metrics Metrics

	mu      sync.RWMutex
	current Request
}

type RouterOption func(*Router)

func WithMetrics(m Metrics) RouterOption {
	return func(r *Router) {
		r.metrics = m
	}
}

func NewRouter(source SessionSource, opts ...RouterOption) *Router {
	r := &Router{
		source:  source,
		current: InitialRequest(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Navigate records a navigation request. While the session is still loading
// the request is dropped: no navigation is processed in the loading tier.
func (r *Router) Navigate(v View, payload any) {
	if r.source.CurrentSession().Loading {
		return
	}
	r.mu.Lock()
	r.current = Request{View: v, Payload: payload}
	r.mu.Unlock()
}

// Current resolves the pending request against the live session state.
func (r *Router) Current() View {
	sess := r.source.CurrentSession()
	profile := r.source.CurrentProfile()

	r.mu.RLock()
	req := r.current
	r.mu.RUnlock()

	t := tierOf(sess, profile)
	resolved := rulesByTier[t].resolve(req)
	if r.metrics != nil {
		name := tierName(t)
		r.metrics.IncrementResolved(name)
		if resolved != req.View {
			r.metrics.IncrementFallbacks(name)
		}
	}
	return resolved
}

// Reset returns navigation to the initial request, used after sign-out so a
// stale protected request does not linger.
func (r *Router) Reset() {
	r.mu.Lock()
	r.current = InitialRequest()
	r.mu.Unlock()
}

// Payload returns the payload of the pending request if the resolved view is
// the requested detail view, nil otherwise.
func (r *Router) Payload() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Payload
}

func tierName(t tier) string {
	switch t {
	case tierLoading:
		return "loading"
	case tierAnonymous:
		return "anonymous"
	case tierCitizen:
		return "citizen"
	case tierAdmin:
		return "admin"
	default:
		return "unknown"
	}
}
