package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/lshigami/StudyBuddy/config"
	"github.com/lshigami/StudyBuddy/internal/realtime"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the single token layout: Subject holds the user id.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email"`
}

func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad subject %q: %w", c.Subject, ErrInvalidToken)
	}
	return uint(id), nil
}

type TokenService interface {
	Issue(userID uint, email string) (string, time.Time, error)
	Parse(token string) (*Claims, error)
}

type tokenService struct {
	issuer string
	secret []byte
	ttl    time.Duration
}

func NewTokenService(cfg *config.Config) TokenService {
	return &tokenService{
		issuer: cfg.AppName,
		secret: []byte(cfg.JWT.Secret),
		ttl:    cfg.JWT.Expiration,
	}
}

func (s *tokenService) Issue(userID uint, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
		Email: email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *tokenService) Parse(token string) (*Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// WebsocketAuthenticator adapts token parsing to the realtime handler's user keys.
func WebsocketAuthenticator(tokens TokenService) realtime.TokenAuthenticator {
	return func(token string) (string, error) {
		claims, err := tokens.Parse(token)
		if err != nil {
			return "", err
		}
		id, err := claims.UserID()
		if err != nil {
			return "", err
		}
		return realtime.UserKey(id), nil
	}
}
