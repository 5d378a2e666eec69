package domain

import "time"

// Session holds the credentials of the signed-in user. Tokens are opaque.
type Session struct {
	User         User
	AccessToken  string
	RefreshToken string
	// SecretRef points to the secret-store entry holding the token pair.
	SecretRef string
	UpdatedAt time.Time
}

func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

func (s Session) WithTokens(pair TokenPair, now time.Time) Session {
	s.AccessToken = pair.AccessToken
	s.RefreshToken = pair.RefreshToken
	s.UpdatedAt = now
	return s
}

func NewSession(resp AuthResponse, secretRef string, now time.Time) Session {
	return Session{
		User:         resp.User,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		SecretRef:    secretRef,
		UpdatedAt:    now,
	}
}
