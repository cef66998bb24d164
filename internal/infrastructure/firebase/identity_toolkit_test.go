package firebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityhub/internal/infrastructure/credential"
)

func newToolkitServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req signInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		if req.Email == "a@x.com" && req.Password == "pw" {
			_, _ = w.Write([]byte(`{"localId":"uid-1","idToken":"t"}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyPassword(t *testing.T) {
	srv := newToolkitServer(t)
	client := &FirebaseAuthClient{apiKey: "test-key", httpClient: srv.Client(), baseURL: srv.URL}

	uid, err := client.VerifyPassword(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)

	_, err = client.VerifyPassword(context.Background(), "a@x.com", "nope")
	assert.ErrorIs(t, err, credential.ErrInvalidPassword)
}

func TestVerifyPasswordWithoutAPIKey(t *testing.T) {
	client := &FirebaseAuthClient{httpClient: http.DefaultClient, baseURL: "http://unused"}

	_, err := client.VerifyPassword(context.Background(), "a@x.com", "pw")
	assert.ErrorIs(t, err, ErrPasswordCheckDisabled)
}
