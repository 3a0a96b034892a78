package domain

// Action is the outcome of an access decision.
type Action string

const (
	ActionForward  Action = "forward"
	ActionRedirect Action = "redirect"
)

// RouteClass groups request paths by how the access router treats them.
type RouteClass string

const (
	RouteAPI       RouteClass = "api"
	RoutePublic    RouteClass = "public"
	RouteProtected RouteClass = "protected"
	RouteOther     RouteClass = "other"
)

// Decision is what the access router wants done with a request.
// Location is set only for ActionRedirect.
type Decision struct {
	Action   Action
	Location string
	Reason   string
}

func (d Decision) IsRedirect() bool {
	return d.Action == ActionRedirect
}

// Request is the framework-independent view of an inbound request.
type Request struct {
	Path    string
	Cookies map[string]string
	Body    []byte
}

// Response is the framework-independent outcome of a request.
// Status 0 means the request should be forwarded unchanged.
type Response struct {
	Status     int
	Headers    map[string]string
	SetCookies []Cookie
	Body       any
}

// Cookie is the subset of cookie attributes this service sets.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	MaxAge   int // seconds
	HTTPOnly bool
	Secure   bool
	SameSite SameSite
}

type SameSite string

const (
	SameSiteStrict SameSite = "Strict"
	SameSiteLax    SameSite = "Lax"
)
