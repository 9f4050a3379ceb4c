package jwt

import (
	"encoding/json"
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims holds the identity attributes embedded in a decoded access token.
// Values are snapshots: a new Claims is produced every time the access
// token changes and is never mutated in place.
type Claims struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the claims have expired at the given instant.
func (c Claims) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// flexibleID accepts both numeric and string encodings of the user id;
// the backend serializer emits a number, other token issuers emit strings.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexibleID(n.String())
	return nil
}

// accessClaims mirrors the backend's access token payload.
type accessClaims struct {
	jwtlib.RegisteredClaims
	UserID    flexibleID `json:"user_id,omitempty"`
	Email     string     `json:"email,omitempty"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
}

// Decode parses an access token without verifying its signature and
// returns the embedded claims. Signature verification is the server's
// responsibility; the client only reads identity attributes and expiry.
func Decode(token string) (Claims, error) {
	var raw accessClaims
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, &raw); err != nil {
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}

	if raw.ExpiresAt == nil {
		return Claims{}, ErrMissingExpiry
	}

	userID := string(raw.UserID)
	if userID == "" {
		userID = raw.Subject
	}

	claims := Claims{
		UserID:    userID,
		Email:     raw.Email,
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		ExpiresAt: raw.ExpiresAt.Time,
	}
	if raw.IssuedAt != nil {
		claims.IssuedAt = raw.IssuedAt.Time
	}

	return claims, nil
}
