package session

import id "aduan/pkg/domain"

// Session is the process-wide authentication state. Exactly one exists,
// owned by the Gate; everyone else only reads.
//
// Lifecycle: {Loading: true} at start, resolved exactly once, then
// authenticated and anonymous alternate with sign-in/sign-up and sign-out.
type Session struct {
	Authenticated bool
	Loading       bool
}

// Profile describes the signed-in user. Present iff Session.Authenticated.
// Immutable for the lifetime of a session; a role change needs a new session.
type Profile struct {
	FullName string
	Role     id.Role
}

// Snapshot bundles what subscribers observe on every transition.
type Snapshot struct {
	Session Session
	Profile *Profile
}
