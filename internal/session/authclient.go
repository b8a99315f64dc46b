// internal/session/authclient.go
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"recruit-admin/internal/common/errors"
)

// AuthClient talks to the hosted auth backend. It owns no session state;
// the Manager does.
type AuthClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// TokenResponse holds the response from the backend's password grant.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			Name string `json:"name"`
		} `json:"user_metadata"`
	} `json:"user"`
}

// NewAuthClient creates a client for the auth backend.
func NewAuthClient(baseURL, anonKey string) *AuthClient {
	return &AuthClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SignInWithPassword exchanges credentials for an access token.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*TokenResponse, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	tokenURL := fmt.Sprintf("%s/auth/v1/token?grant_type=password", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", a.anonKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError("sign in", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewAuthenticationError(
			fmt.Sprintf("sign-in rejected with status %d: %s", resp.StatusCode, string(body)))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, errors.NewAuthenticationError("sign-in response carried no access token")
	}

	return &tokenResp, nil
}

// ConfirmSession verifies a token server-side and returns the user it
// belongs to. A rejection means the token must be discarded locally.
func (a *AuthClient) ConfirmSession(ctx context.Context, accessToken string) (string, error) {
	userURL := fmt.Sprintf("%s/auth/v1/user", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", a.anonKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", errors.NewNetworkError("confirm session", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewSessionExpiredError(
			fmt.Sprintf("session rejected server-side with status %d", resp.StatusCode))
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("failed to decode session response: %w", err)
	}
	return user.ID, nil
}

// SignOut invalidates the token on the backend. Failures are reported but
// the local session is torn down regardless.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	logoutURL := fmt.Sprintf("%s/auth/v1/logout", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, logoutURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create logout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", a.anonKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return errors.NewNetworkError("sign out", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("logout rejected with status %d", resp.StatusCode)
	}
	return nil
}
