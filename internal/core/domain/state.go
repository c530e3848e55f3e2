package domain

// AuthStatus tags the authentication state of one client instance.
type AuthStatus int

const (
	StatusUnknown AuthStatus = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s AuthStatus) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// AuthState is the derived state that drives every render/redirect decision.
// Session is non-nil only when Status is StatusAuthenticated.
type AuthState struct {
	Status  AuthStatus
	Session *Session
}

// Unknown is the initial state while boot verification is pending.
func Unknown() AuthState { return AuthState{Status: StatusUnknown} }

// Unauthenticated is the state with no session.
func Unauthenticated() AuthState { return AuthState{Status: StatusUnauthenticated} }

// Authenticated returns the state holding a copy of s.
func Authenticated(s Session) AuthState {
	return AuthState{Status: StatusAuthenticated, Session: &s}
}

// User returns the profile of the authenticated session, if any.
func (a AuthState) User() (UserProfile, bool) {
	if a.Status != StatusAuthenticated || a.Session == nil {
		return UserProfile{}, false
	}
	return a.Session.User, true
}
