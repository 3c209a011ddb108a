// ABOUTME: Route guard deciding whether a screen or command may be shown
// ABOUTME: Protected routes redirect to login while no credential is stored

package guard

// Route names a navigable screen
type Route string

const (
	RouteLogin       Route = "login"
	RouteRegister    Route = "register"
	RouteStudy       Route = "study"
	RouteSessions    Route = "sessions"
	RouteLeaderboard Route = "leaderboard"
	RouteScores      Route = "scores"
)

// State is the outcome of a guard check
type State int

const (
	Allowed State = iota
	Redirected
)

func (s State) String() string {
	if s == Redirected {
		return "redirected"
	}
	return "allowed"
}

// Decision is the result of Check. Target is the route to show.
type Decision struct {
	State  State
	Target Route
}

// Authenticator reports whether a credential is currently stored
type Authenticator interface {
	IsAuthenticated() bool
}

var protected = map[Route]bool{
	RouteStudy:    true,
	RouteSessions: true,
}

// IsProtected reports whether route requires a credential
func IsProtected(route Route) bool {
	return protected[route]
}

// Guard checks navigation against the current credential. It holds no
// state of its own, so every Check sees the latest token.
type Guard struct {
	Auth Authenticator
}

// New creates a guard backed by auth
func New(auth Authenticator) *Guard {
	return &Guard{Auth: auth}
}

// Check decides whether route may be shown
func (g *Guard) Check(route Route) Decision {
	if IsProtected(route) && (g.Auth == nil || !g.Auth.IsAuthenticated()) {
		return Decision{State: Redirected, Target: RouteLogin}
	}
	return Decision{State: Allowed, Target: route}
}
