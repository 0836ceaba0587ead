package jwt

import (
	"errors"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/OfficialEseosa/panther-watch/config"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims mirrors the Supabase access-token payload. Supabase signs its
// session tokens with the project JWT secret using HS256; the backend
// trusts that signature instead of running its own login flow.
type Claims struct {
	Email        string       `json:"email"`
	Role         string       `json:"role"` // "authenticated" for signed-in users
	UserMetadata UserMetadata `json:"user_metadata"`
	jwtv5.RegisteredClaims
}

// UserMetadata carries the OAuth profile fields Supabase copies from the
// identity provider (Google/Microsoft).
type UserMetadata struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// Verifier validates Supabase access tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a token verifier from configuration.
func NewVerifier(cfg *config.AuthConfig) *Verifier {
	return &Verifier{secret: []byte(cfg.SupabaseJWTSecret)}
}

// ParseToken validates the signature and expiry and returns the claims.
func (v *Verifier) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
