package view

// View names a screen the portal can show. The enumeration is closed: Parse
// rejects anything outside it, and the router maps unknown requests to a
// tier-appropriate fallback anyway.
type View string

const (
	Landing              View = "landing"
	Login                View = "login"
	Register             View = "register"
	Dashboard            View = "dashboard"
	CreateComplaint      View = "create-complaint"
	ComplaintDetail      View = "complaint-detail"
	MyComplaints         View = "my-complaints"
	Settings             View = "settings"
	AdminDashboard       View = "admin-dashboard"
	AllComplaints        View = "all-complaints"
	AdminComplaintDetail View = "admin-complaint-detail"
	Statistics           View = "statistics"
	Users                View = "users"

	// Loading is the neutral placeholder rendered while the session gate is
	// still resolving. It is never requestable.
	Loading View = "loading"
)

var known = map[View]struct{}{
	Landing: {}, Login: {}, Register: {}, Dashboard: {}, CreateComplaint: {},
	ComplaintDetail: {}, MyComplaints: {}, Settings: {}, AdminDashboard: {},
	AllComplaints: {}, AdminComplaintDetail: {}, Statistics: {}, Users: {},
}

// Parse validates a raw view identifier. Unknown identifiers are reported
// but still routable: the router treats them as any other unreachable view.
func Parse(raw string) (View, bool) {
	v := View(raw)
	_, ok := known[v]
	return v, ok
}

// Request is an ephemeral navigation request: a view plus the optional
// payload detail views carry (the complaint record being opened).
type Request struct {
	View    View
	Payload any
}
