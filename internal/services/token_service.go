package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"railbook/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin   = "admin"
	RoleBooking = "booking"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrBadCredentials = errors.New("invalid credentials")
)

// TokenClaims is what a verified token grants.
type TokenClaims struct {
	Role      string
	BookingID string
}

// TokenService issues HS256 tokens: one per booking for its holder, and
// admin tokens after a bcrypt password check.
type TokenService struct {
	Secret            []byte
	TTL               time.Duration
	AdminPasswordHash string
	Now               func() time.Time
}

func (s TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s TokenService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 24 * time.Hour
}

func (s TokenService) IssueBookingToken(bookingID string) (string, error) {
	return s.sign(jwt.MapClaims{
		"role":       RoleBooking,
		"booking_id": bookingID,
	})
}

func (s TokenService) IssueAdminToken() (string, error) {
	return s.sign(jwt.MapClaims{"role": RoleAdmin})
}

// Ready reports whether tokens can be signed at all.
func (s TokenService) Ready() error {
	if len(s.Secret) == 0 {
		return domain.InternalError{Msg: "JWT_SECRET is not configured"}
	}
	return nil
}

func (s TokenService) sign(claims jwt.MapClaims) (string, error) {
	if err := s.Ready(); err != nil {
		return "", err
	}
	now := s.now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.ttl()).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", domain.InternalError{Msg: "could not sign token", Err: err}
	}
	return signed, nil
}

// Parse verifies raw and returns its claims.
func (s TokenService) Parse(raw string) (TokenClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(s.Secret) == 0 {
		return TokenClaims{}, ErrInvalidToken
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return TokenClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	bookingID, _ := mc["booking_id"].(string)
	if role != RoleAdmin && (role != RoleBooking || bookingID == "") {
		return TokenClaims{}, ErrInvalidToken
	}
	return TokenClaims{Role: role, BookingID: bookingID}, nil
}

// CheckAdminPassword compares password with the configured bcrypt hash.
func (s TokenService) CheckAdminPassword(password string) error {
	if strings.TrimSpace(s.AdminPasswordHash) == "" {
		return ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.AdminPasswordHash), []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}
