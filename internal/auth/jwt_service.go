package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultAccessTokenTTL applies when JWTConfig leaves AccessTokenTTL unset.
	DefaultAccessTokenTTL = 15 * time.Minute

	// RoleAdmin marks tokens allowed to broadcast notifications and manage events.
	RoleAdmin = "admin"

	clockSkew = 30 * time.Second
)

var (
	ErrMissingSecret = errors.New("jwt: secret must be provided")
	ErrEmptyToken    = errors.New("jwt: token string is empty")
	ErrMissingUserID = errors.New("jwt: missing user id claim")
)

// JWTConfig configures a JWTService. Clock is for tests.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
	Clock          func() time.Time
}

// Claims are the access token claims minted by the account service. UserID is opaque to the
// token layer; only positive integers identify a notification recipient.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// NumericUserID returns the recipient id carried by the token, if any.
func (c *Claims) NumericUserID() (int64, bool) {
	if c == nil {
		return 0, false
	}
	return ParseUserID(c.UserID)
}

func (c *Claims) IsAdmin() bool {
	return c != nil && strings.EqualFold(strings.TrimSpace(c.Role), RoleAdmin)
}

// ParseUserID accepts only canonical positive integers.
func ParseUserID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// AccessTokenInput describes a token to mint.
type AccessTokenInput struct {
	UserID   string
	Role     string
	Audience []string
}

// JWTService validates HS256 access tokens. Minting exists for operational tooling and tests.
type JWTService struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}

	svc := &JWTService{
		key:    []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTokenTTL,
		now:    cfg.Clock,
	}
	if svc.ttl <= 0 {
		svc.ttl = DefaultAccessTokenTTL
	}
	if svc.now == nil {
		svc.now = time.Now
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(svc.now),
		jwt.WithLeeway(clockSkew),
		jwt.WithExpirationRequired(),
	}
	if svc.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(svc.issuer))
	}
	svc.parser = jwt.NewParser(parserOpts...)

	return svc, nil
}

// GenerateAccessToken signs a token for input that expires after the configured TTL.
func (s *JWTService) GenerateAccessToken(input AccessTokenInput) (string, error) {
	if input.UserID == "" {
		return "", ErrMissingUserID
	}

	issuedAt := jwt.NewNumericDate(s.now())
	claims := &Claims{
		UserID: input.UserID,
		Role:   input.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.UserID,
			Issuer:    s.issuer,
			Audience:  input.Audience,
			IssuedAt:  issuedAt,
			NotBefore: issuedAt,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken verifies signature, expiry and issuer. Failures wrap the jwt package
// errors, e.g. jwt.ErrTokenExpired.
func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	var claims Claims
	if _, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	}); err != nil {
		return nil, fmt.Errorf("jwt: parse token: %w", err)
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	return &claims, nil
}
