package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"plunge/internal/auth"
	"plunge/internal/metrics"
)

var ErrCodeMismatch = errors.New("verification code does not match")

// Sender is the slice of the email service the OTP flow needs.
type Sender interface {
	SendOTPCode(ctx context.Context, to, code string, ttl time.Duration) error
}

type Service interface {
	// Send generates a fresh code for the email and queues it for delivery.
	// Sending again replaces any pending code.
	Send(ctx context.Context, email string) error
	// Verify consumes the pending code and, on a match, returns a short-lived
	// token proving the email address. A failed attempt burns the code.
	Verify(ctx context.Context, email, code string) (string, error)
}

type service struct {
	store     *Store
	sender    Sender
	jwtSecret string
}

func NewService(store *Store, sender Sender, jwtSecret string) Service {
	return &service{store: store, sender: sender, jwtSecret: jwtSecret}
}

func (s *service) Send(ctx context.Context, email string) error {
	email = normalize(email)

	code, err := generateCode()
	if err != nil {
		return err
	}

	if err := s.store.Save(ctx, email, code); err != nil {
		return err
	}

	if err := s.sender.SendOTPCode(ctx, email, code, s.store.TTL()); err != nil {
		return err
	}

	metrics.RecordOTP("sent")
	return nil
}

func (s *service) Verify(ctx context.Context, email, code string) (string, error) {
	email = normalize(email)

	stored, err := s.store.Consume(ctx, email)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			metrics.RecordOTP("rejected")
		}
		return "", err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		metrics.RecordOTP("rejected")
		return "", ErrCodeMismatch
	}

	token, err := auth.GenerateEmailToken(email, s.jwtSecret)
	if err != nil {
		return "", err
	}

	metrics.RecordOTP("verified")
	return token, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
