package firebase

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var ErrNoEmail = errors.New("firebase token has no email claim")

type Verifier struct {
	client *auth.Client
}

// NewVerifier falls back to application default credentials when credentialsFile is empty.
func NewVerifier(ctx context.Context, projectID, credentialsFile string) (*Verifier, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firebase auth client: %w", err)
	}

	return &Verifier{client: client}, nil
}

// VerifyEmail checks the ID token signature and returns the email it was issued for.
func (v *Verifier) VerifyEmail(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("failed to verify id token: %w", err)
	}
	return emailFromClaims(token.Claims)
}

func emailFromClaims(claims map[string]interface{}) (string, error) {
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", ErrNoEmail
	}
	return email, nil
}
