package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AfopeM/nawalingo/config"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims identity-provider access token claims.
// Subject carries the user id; Role is the provider's session role
// ("authenticated"), unrelated to marketplace roles.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwtv5.RegisteredClaims
}

// Identity result of a successful token exchange
type Identity struct {
	UserID string
	Email  string
}

// Manager verifies bearer tokens issued by the identity provider
type Manager struct {
	secret   []byte
	issuer   string
	audience string
}

// NewManager creates a Manager from the auth config
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
}

// ParseToken validates the signature, expiry and, when configured, issuer
// and audience.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	opts := []jwtv5.ParserOption{jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwtv5.WithAudience(m.audience))
	}

	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
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

	return claims, nil
}

// Authenticate exchanges a token for the caller's identity
func (m *Manager) Authenticate(tokenString string) (*Identity, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// GenerateAccessToken signs a token the way the provider does. Used by tests
// and local tooling; production tokens come from the provider.
func (m *Manager) GenerateAccessToken(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
		},
	}
	if m.issuer != "" {
		claims.Issuer = m.issuer
	}
	if m.audience != "" {
		claims.Audience = jwtv5.ClaimStrings{m.audience}
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}
