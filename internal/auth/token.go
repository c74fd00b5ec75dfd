package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inkwell-api/inkwell/internal/config"
	"github.com/inkwell-api/inkwell/internal/db/models"
)

// Token types, carried in the "typ" claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
	TokenReset   = "reset"
)

const fingerprintLen = 16

// Claims are the JWT claims of every token issued by TokenService.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
	// Fingerprint binds reset tokens to the password hash they were issued for.
	Fingerprint string `json:"fp,omitempty"`
}

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// NewTokenService creates a token service from the auth configuration.
func NewTokenService(cfg *config.Auth) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		resetTTL:   cfg.ResetTokenTTL,
		now:        time.Now,
	}
}

// IssuePair returns a new access and refresh token for u.
func (s *TokenService) IssuePair(u *models.User) (access, refresh string, err error) {
	access, err = s.issue(u.ID, TokenAccess, "", s.accessTTL)
	if err != nil {
		return "", "", err
	}

	refresh, err = s.issue(u.ID, TokenRefresh, "", s.refreshTTL)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// ParseAccess returns the user id of a valid access token.
func (s *TokenService) ParseAccess(token string) (uint64, error) {
	c, err := s.parse(token, TokenAccess)
	if err != nil {
		return 0, err
	}

	return subject(c)
}

// Refresh trades a valid refresh token for a new access token and reports its user id.
func (s *TokenService) Refresh(refresh string) (string, uint64, error) {
	c, err := s.parse(refresh, TokenRefresh)
	if err != nil {
		return "", 0, err
	}

	id, err := subject(c)
	if err != nil {
		return "", 0, err
	}

	access, err := s.issue(id, TokenAccess, "", s.accessTTL)
	if err != nil {
		return "", 0, err
	}

	return access, id, nil
}

// MakeResetToken returns the uid and token of a password reset link for u.
func (s *TokenService) MakeResetToken(u *models.User) (uid, token string, err error) {
	token, err = s.issue(u.ID, TokenReset, fingerprint(u.Password), s.resetTTL)
	if err != nil {
		return "", "", err
	}

	return EncodeUID(u.ID), token, nil
}

// CheckResetToken verifies token for u. It fails once u's password changed.
func (s *TokenService) CheckResetToken(u *models.User, token string) error {
	c, err := s.parse(token, TokenReset)
	if err != nil {
		return ErrExpiredResetLink
	}

	id, err := subject(c)
	if err != nil || id != u.ID {
		return ErrExpiredResetLink
	}

	if c.Fingerprint != fingerprint(u.Password) {
		return ErrExpiredResetLink
	}

	return nil
}

// EncodeUID encodes a user id for reset links.
func EncodeUID(id uint64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(id, 10)))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(uid string) (uint64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, ErrInvalidResetLink
	}

	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidResetLink
	}

	return id, nil
}

func (s *TokenService) issue(userID uint64, typ, fp string, ttl time.Duration) (string, error) {
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type:        typ,
		Fingerprint: fp,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) parse(token, typ string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Type != typ {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func subject(c *Claims) (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}

	return id, nil
}

func fingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))

	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
