package domain

// UserProfile is the cached identity snapshot returned by the backend on
// login. It is replaced wholesale, never patched.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session pairs a bearer credential with the profile it was issued for.
type Session struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// Valid reports whether both halves of the session are present.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.ID != ""
}
