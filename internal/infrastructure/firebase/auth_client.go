package firebase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"

	"communityhub/internal/infrastructure/credential"
)

// FirebaseAuthClient is the credential store backed by Firebase Auth. With
// an API key it can also check passwords through the Identity Toolkit.
type FirebaseAuthClient struct {
	client     *auth.Client
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:     client,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    identityToolkitURL,
	}
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, input credential.Input) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(input.Email).
		Password(input.Password)
	if input.UID != "" {
		params = params.UID(input.UID)
	}
	if input.DisplayName != "" {
		params = params.DisplayName(input.DisplayName)
	}

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) || auth.IsUIDAlreadyExists(err) {
			return "", errors.Join(credential.ErrExists, err)
		}
		return "", err
	}

	return user.UID, nil
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}
