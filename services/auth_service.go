package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"cfb-pickem-go/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService validates identity-provider tokens and the sync API key
type AuthService struct {
	userRepo    UserRepository
	jwtSecret   []byte
	issuer      string
	syncKeyHash []byte
	tokenExpiry time.Duration
}

// JWTClaims represents the claims the identity provider puts in a token.
// Subject (sub) is the stable user id.
type JWTClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service. syncKeyHash is a
// bcrypt hash and may be empty, which disables key-based sync.
func NewAuthService(userRepo UserRepository, jwtSecret, issuer, syncKeyHash string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		issuer:      issuer,
		syncKeyHash: []byte(syncKeyHash),
		tokenExpiry: 24 * time.Hour,
	}
}

// GenerateToken signs a token for the given identity. Used by the dev
// token tool and tests; production tokens come from the identity provider.
func (a *AuthService) GenerateToken(subject, email, name string, admin bool) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Email: email,
		Name:  name,
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    a.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (a *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return a.jwtSecret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// GetUserFromToken validates token and returns the matching user, creating
// or refreshing the user record from the claims
func (a *AuthService) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	return a.userRepo.UpsertBySubject(ctx, &models.User{
		Subject:     claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		IsAdmin:     claims.Admin,
	})
}

// SyncKeyEnabled reports whether a sync API key is configured
func (a *AuthService) SyncKeyEnabled() bool {
	return len(a.syncKeyHash) > 0
}

// CheckSyncKey compares key against the configured bcrypt hash
func (a *AuthService) CheckSyncKey(key string) bool {
	if !a.SyncKeyEnabled() || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.syncKeyHash, []byte(key)) == nil
}
