package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Claims carries the caller identity inside a signed token.
type Claims struct {
	UserID    int64  `json:"user_id"`
	CompanyID int64  `json:"company_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// JWTTokenGenerator signs HS256 tokens. Access and refresh tokens use separate secrets.
type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	now                func() time.Time
}

func NewJWTTokenGenerator(cfg internal.SecurityConfig) *JWTTokenGenerator {
	g := &JWTTokenGenerator{
		AccessTokenSecret:  []byte(cfg.JWTSecret),
		RefreshTokenSecret: []byte(cfg.JWTRefreshSecret),
		AccessTokenTTL:     cfg.AccessTokenDuration,
		RefreshTokenTTL:    cfg.RefreshTokenDuration,
		now:                time.Now,
	}
	if g.AccessTokenTTL <= 0 {
		g.AccessTokenTTL = 15 * time.Minute
	}
	if g.RefreshTokenTTL <= 0 {
		g.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return g
}

func (j *JWTTokenGenerator) WithClock(now func() time.Time) *JWTTokenGenerator {
	j.now = now
	return j
}

// Issue creates a fresh access/refresh pair for the identity in claims.
func (j *JWTTokenGenerator) Issue(identity Claims) (AuthTokens, error) {
	now := j.now()
	access, err := j.sign(identity, tokenTypeAccess, now, j.AccessTokenTTL, j.AccessTokenSecret)
	if err != nil {
		return AuthTokens{}, err
	}
	refresh, err := j.sign(identity, tokenTypeRefresh, now, j.RefreshTokenTTL, j.RefreshTokenSecret)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{AccessToken: access, RefreshToken: refresh, ExpiresAt: now.Add(j.AccessTokenTTL).UTC()}, nil
}

func (j *JWTTokenGenerator) ValidateAccessToken(token string) (*Claims, error) {
	return j.validate(token, tokenTypeAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(token string) (*Claims, error) {
	return j.validate(token, tokenTypeRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(identity Claims, tokenType string, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	claims := &Claims{
		UserID:    identity.UserID,
		CompanyID: identity.CompanyID,
		Email:     identity.Email,
		Role:      identity.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", identity.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (j *JWTTokenGenerator) validate(tokenString, tokenType string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.TokenType != tokenType || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
