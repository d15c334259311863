package identity

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

// JWT issues and verifies HS256 tokens carrying the principal email.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ Verifier = (*JWT)(nil)

func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret), ttl: DefaultTokenTTL, now: time.Now}
}

func (j *JWT) Issue(p Principal) (string, error) {
	now := j.now()
	claims := jwt.MapClaims{
		"sub":   p.Subject,
		"email": p.Email,
		"exp":   now.Add(j.ttl).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWT) Verify(_ context.Context, raw string) (Principal, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(email) == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{Subject: sub, Email: email}, nil
}
