// internal/apiclient/endpoints.go
//
// One typed builder per endpoint family. Paths are assembled from typed
// parameters only; no runtime template evaluation.
package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"recruit-admin/internal/models"
)

// Profile fetches the staff profile for the current session.
func (c *Client) Profile(ctx context.Context) (*models.StaffProfile, error) {
	raw, err := c.call(ctx, "profile", http.MethodGet, "/api/users/me", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		User models.StaffProfile `json:"user"`
	}
	if err := decodeResult(raw, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// StatusOptions returns the list of selectable applicant statuses.
func (c *Client) StatusOptions(ctx context.Context) ([]string, error) {
	raw, err := c.call(ctx, "status_options", http.MethodGet, "/api/users/status", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Status []string `json:"status"`
	}
	if err := decodeResult(raw, &resp); err != nil {
		return nil, err
	}
	return resp.Status, nil
}

// SignedResume holds a short-lived download URL for an applicant's résumé.
type SignedResume struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// SignedResumeURL retrieves a signed résumé URL for an applicant.
func (c *Client) SignedResumeURL(ctx context.Context, applicantID string) (*SignedResume, error) {
	raw, err := c.call(ctx, "signed_resume", http.MethodGet,
		"/api/admin/curriculo/"+url.PathEscape(applicantID), nil)
	if err != nil {
		return nil, err
	}
	var resume SignedResume
	if err := decodeResult(raw, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// AdminStats is the aggregate view the backend computes over all records.
type AdminStats struct {
	TotalCandidaturas int            `json:"total_candidaturas"`
	PorStatus         map[string]int `json:"por_status"`
	PorCidade         map[string]int `json:"por_cidade"`
}

// Stats fetches backend-computed aggregates (admin only).
func (c *Client) Stats(ctx context.Context) (*AdminStats, error) {
	raw, err := c.call(ctx, "stats", http.MethodGet, "/api/admin/stats", nil)
	if err != nil {
		return nil, err
	}
	var stats AdminStats
	if err := decodeResult(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DistanceResult is the commute estimate between the store and an
// applicant's address.
type DistanceResult struct {
	DistanciaKm float64 `json:"distancia_km"`
	Duracao     string  `json:"duracao"`
	Origem      string  `json:"origem"`
	Destino     string  `json:"destino"`
}

// CalculateDistance asks the backend for the commute distance to an
// applicant address.
func (c *Client) CalculateDistance(ctx context.Context, candidateAddress string) (*DistanceResult, error) {
	body := map[string]string{"enderecoCandidato": candidateAddress}
	raw, err := c.call(ctx, "distance", http.MethodPost, "/api/admin/calcular-distancia", body)
	if err != nil {
		return nil, err
	}
	var result DistanceResult
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateApplicant sends privileged field updates through the REST API
// instead of the direct store path.
func (c *Client) UpdateApplicant(ctx context.Context, id string, fields map[string]interface{}) (json.RawMessage, error) {
	return c.call(ctx, "update_applicant", http.MethodPut,
		"/api/admin/candidaturas/"+url.PathEscape(id), fields)
}

// Job is a posting managed through the admin API.
type Job struct {
	ID        string `json:"id,omitempty"`
	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`
	Cidade    string `json:"cidade"`
	Ativa     bool   `json:"ativa"`
}

// ListJobs returns all job postings.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	raw, err := c.call(ctx, "jobs", http.MethodGet, "/api/admin/vagas", nil)
	if err != nil {
		return nil, err
	}
	var jobs []Job
	if err := decodeResult(raw, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// CreateJob publishes a new posting.
func (c *Client) CreateJob(ctx context.Context, job Job) (*Job, error) {
	raw, err := c.call(ctx, "jobs", http.MethodPost, "/api/admin/vagas", job)
	if err != nil {
		return nil, err
	}
	var created Job
	if err := decodeResult(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateJob edits an existing posting.
func (c *Client) UpdateJob(ctx context.Context, id string, job Job) (*Job, error) {
	raw, err := c.call(ctx, "jobs", http.MethodPut, "/api/admin/vagas/"+url.PathEscape(id), job)
	if err != nil {
		return nil, err
	}
	var updated Job
	if err := decodeResult(raw, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteJob removes a posting.
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	_, err := c.call(ctx, "jobs", http.MethodDelete, "/api/admin/vagas/"+url.PathEscape(id), nil)
	return err
}

// StaffPayload carries user-management fields for admin operations.
type StaffPayload struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Nivel string `json:"nivel"`
	Senha string `json:"senha,omitempty"`
}

// CreateStaff provisions a panel user (admin only).
func (c *Client) CreateStaff(ctx context.Context, payload StaffPayload) (*models.StaffProfile, error) {
	raw, err := c.call(ctx, "users", http.MethodPost, "/api/users", payload)
	if err != nil {
		return nil, err
	}
	var created models.StaffProfile
	if err := decodeResult(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStaff edits a panel user (admin only).
func (c *Client) UpdateStaff(ctx context.Context, id string, payload StaffPayload) (*models.StaffProfile, error) {
	raw, err := c.call(ctx, "users", http.MethodPut, "/api/users/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, err
	}
	var updated models.StaffProfile
	if err := decodeResult(raw, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStaff removes a panel user (admin only).
func (c *Client) DeleteStaff(ctx context.Context, id string) error {
	_, err := c.call(ctx, "users", http.MethodDelete, "/api/users/"+url.PathEscape(id), nil)
	return err
}
