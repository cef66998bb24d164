package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"communityhub/internal/infrastructure/credential"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

var ErrPasswordCheckDisabled = errors.New("password verification requires FIREBASE_API_KEY")

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// VerifyPassword signs in through the Identity Toolkit REST API and returns
// the uid on success. Any rejection maps to credential.ErrInvalidPassword.
func (f *FirebaseAuthClient) VerifyPassword(ctx context.Context, email, password string) (string, error) {
	if f.apiKey == "" {
		return "", ErrPasswordCheckDisabled
	}

	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", f.baseURL, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity toolkit request: %w", err)
	}
	defer resp.Body.Close()

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("identity toolkit response: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest {
		return "", credential.ErrInvalidPassword
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("identity toolkit: %s", msg)
	}

	return out.LocalID, nil
}
