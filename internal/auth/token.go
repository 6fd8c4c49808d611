package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
	jwt "github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "shelf"

// Claims are the registered JWT claims carried by a session token.
// Subject is the user ID and ID (jti) is the session ID.
type Claims struct {
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token for session.
func SignToken(secret []byte, session *models.Session) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   session.UserID(),
			ID:        session.ID(),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt()),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken validates the token's signature and expiry and returns its claims.
//
// Expired tokens yield [shared.ErrTokenExpired]; any other failure yields [shared.ErrInvalidToken].
func ParseToken(secret []byte, token string, now time.Time) (*Claims, error) {
	return parseToken(secret, token, jwt.WithTimeFunc(func() time.Time { return now }))
}

// parseSignature checks only the signature, accepting expired tokens.
func parseSignature(secret []byte, token string) (*Claims, error) {
	return parseToken(secret, token, jwt.WithoutClaimsValidation())
}

func parseToken(secret []byte, token string, opts ...jwt.ParserOption) (*Claims, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	tok, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, shared.ErrTokenExpired
		}
		log.Debug("rejected token", "err", err)
		return nil, shared.ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}
