package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StaticVerifier validates HS256 tokens signed with a shared secret.
// It stands in for a real OIDC provider when OIDC_ISSUER is unset —
// local development and tests mint their own tokens with GenerateToken.
type StaticVerifier struct {
	secret string
}

func NewStaticVerifier(secret string) *StaticVerifier {
	return &StaticVerifier{secret: secret}
}

// Claims mirrors the slice of an ID token this service cares about:
// who the caller is (Subject, via RegisteredClaims) and their email.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken mints a dev token for the given subject. Only the static
// mode ever signs tokens — in OIDC mode the provider does the issuing.
func GenerateToken(subject, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "reelbase",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (v *StaticVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(rawToken, &Claims{},
		func(token *jwt.Token) (any, error) {
			// Reject anything that isn't HMAC before checking the
			// signature — guards against algorithm-switching tokens.
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(v.secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
	}, nil
}
