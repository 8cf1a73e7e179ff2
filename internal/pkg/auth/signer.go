package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

const fileTokenAudience = "file-download"

// URLSigner issues short-lived download tokens for private files
type URLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewURLSigner creates a signer using the given secret and token lifetime
func NewURLSigner(secret string, ttl time.Duration) *URLSigner {
	return &URLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens
func (s *URLSigner) TTL() time.Duration {
	return s.ttl
}

// Sign returns a token bound to fileID and its expiry time
func (s *URLSigner) Sign(fileID int64) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(fileID, 10),
		Audience:  jwt.ClaimStrings{fileTokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign file token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify checks the token signature, expiry and that it was issued for fileID
func (s *URLSigner) Verify(tokenString string, fileID int64) error {
	if tokenString == "" {
		return apperrors.ErrTokenInvalid
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(fileTokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return apperrors.ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	if claims.Subject != strconv.FormatInt(fileID, 10) {
		return apperrors.ErrTokenInvalid
	}
	return nil
}
