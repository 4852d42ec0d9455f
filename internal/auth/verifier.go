package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"financas/internal/config"
)

var (
	ErrMissingToken = errors.New("authorization header is required")
	ErrInvalidToken = errors.New("invalid authentication token")
)

// Session carries the identity attached to a verified request.
type Session struct {
	UID   string
	Email string
}

// Verifier turns a bearer token into an authenticated session.
type Verifier interface {
	Verify(ctx context.Context, token string) (Session, error)
}

// FirebaseVerifier validates Firebase ID tokens issued to the web client.
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(ctx context.Context, cfg *config.Config) (*FirebaseVerifier, error) {
	opts := []option.ClientOption{}
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Session, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	session := Session{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		session.Email = email
	}
	return session, nil
}

// StaticVerifier accepts every token as a fixed development user.
type StaticVerifier struct {
	UID string
}

func (v StaticVerifier) Verify(_ context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{UID: v.UID, Email: v.UID + "@dev.local"}, nil
}

// ExtractTokenFromHeader pulls the bearer token out of an Authorization header.
func ExtractTokenFromHeader(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("%w: authorization header must be a bearer token", ErrInvalidToken)
	}

	return parts[1], nil
}
