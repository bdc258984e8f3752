package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = time.Hour
	tokenSubject    = "pixoonair"
	signingKeyBytes = 32
)

// Domain errors for auth flows.
var (
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	ErrAuthDisabled      = errors.New("auth is disabled")
	ErrInvalidToken      = errors.New("invalid token")
)

// AuthConfig configures the optional API passphrase.
type AuthConfig struct {
	PassphraseHash string // bcrypt; empty disables auth
	SigningKey     string // random per process when empty
	TokenTTL       time.Duration
}

// AuthService exchanges the local passphrase for a short-lived JWT.
type AuthService struct {
	passphraseHash []byte
	signingKey     []byte
	ttl            time.Duration
}

func NewAuthService(cfg AuthConfig) (*AuthService, error) {
	key := []byte(cfg.SigningKey)
	if len(key) == 0 {
		key = make([]byte, signingKeyBytes)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		passphraseHash: []byte(strings.TrimSpace(cfg.PassphraseHash)),
		signingKey:     key,
		ttl:            ttl,
	}, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
}

// Enabled reports whether API calls require a token.
func (s *AuthService) Enabled() bool {
	return len(s.passphraseHash) > 0
}

// GenerateToken checks the passphrase and returns a signed JWT.
func (s *AuthService) GenerateToken(passphrase string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.passphraseHash, []byte(passphrase)); err != nil {
		return "", ErrInvalidPassphrase
	}
	return s.issueToken(time.Now())
}

// ParseToken validates accessToken and returns its subject.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// HashPassphrase returns the bcrypt hash to put in auth.passphrase_hash.
func HashPassphrase(passphrase string) (string, error) {
	if strings.TrimSpace(passphrase) == "" {
		return "", errors.New("passphrase is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash passphrase: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) issueToken(now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tokenSubject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.signingKey)
}
