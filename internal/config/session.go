package config

// Session is the process-scoped identity handed to the core at
// construction. The core only ever reads it; nothing downstream mutates
// who the current user is mid-run.
type Session struct {
	userID string
	token  string
}

// NewSession builds a Session from validated config.
func NewSession(c *Config) Session {
	return Session{userID: c.UserID, token: c.Token}
}

// UserID returns the current user's id.
func (s Session) UserID() string { return s.userID }

// Token returns the bearer token.
func (s Session) Token() string { return s.token }

// Logout returns a torn-down session with identity and token cleared.
// Callers drop their old Session value; there is nothing else to revoke
// client-side.
func (s Session) Logout() Session {
	return Session{}
}

// Active reports whether the session still carries an identity.
func (s Session) Active() bool {
	return s.userID != "" && s.token != ""
}
