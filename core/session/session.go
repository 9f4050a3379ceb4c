package session

// TokenPair is the credential set of an authenticated session: a
// short-lived access token carrying the identity claims and a
// longer-lived refresh token used only to mint new access tokens.
//
// A pair is either absent (logged out) or complete; the manager never
// persists an access token without its refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid reports whether both tokens are present.
func (p TokenPair) Valid() bool {
	return p.Access != "" && p.Refresh != ""
}

// State identifies the session lifecycle phase.
type State int

const (
	// StateInitializing is the transient startup state while the stored
	// session is being restored and, if needed, refreshed.
	StateInitializing State = iota
	// StateUnauthenticated means no session is active; login is possible.
	StateUnauthenticated
	// StateAuthenticated means a token pair is held and claims are readable.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// RegisterParams carries the account creation fields. PasswordConfirmation
// is forwarded to the backend and additionally checked client-side.
type RegisterParams struct {
	Email                string
	Password             string
	PasswordConfirmation string
	FirstName            string
	LastName             string
}
