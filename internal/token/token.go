package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// expired, malformed. Callers never learn which.
var ErrInvalidToken = errors.New("invalid token")

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 360000 * time.Second

type identity struct {
	ID int64 `json:"id"`
}

// Claims embeds the registered claim set plus the user identity the
// rest of the API keys on.
type Claims struct {
	jwt.RegisteredClaims
	User identity `json:"user"`
}

// Service issues and verifies HS256-signed identity tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), ttl: DefaultTTL, now: time.Now}
}

// Issue produces a signed token embedding the user id, expiring ttl
// after issuance.
func (s *Service) Issue(userID int64) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		User: identity{ID: userID},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify parses and validates a token, returning the embedded user id.
func (s *Service) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	return claims.User.ID, nil
}
