// Package client is a typed client for the site's JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"github.com/rpupo63/virtuality-fashion-backend/storage"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string           `json:"error"`
	Details    string           `json:"details"`
	Fields     errs.FieldErrors `json:"fields"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

type TeamMemberList struct {
	TeamMembers []models.TeamMember `json:"team_members"`
	Total       int                 `json:"total"`
	Source      catalog.Source      `json:"source"`
}

type PortfolioItemList struct {
	PortfolioItems []models.PortfolioItem `json:"portfolio_items"`
	Total          int                    `json:"total"`
}

type Client struct {
	baseURL  string
	http     *http.Client
	password string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithPassword sends the admin password as a bearer token.
func WithPassword(password string) Option {
	return func(c *Client) { c.password = password }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListTeamMembers(ctx context.Context) (TeamMemberList, error) {
	var out TeamMemberList
	err := c.do(ctx, http.MethodGet, "/api/team-members", nil, "", &out)
	return out, err
}

func (c *Client) GetTeamMember(ctx context.Context, id string) (models.TeamMember, error) {
	var out models.TeamMember
	err := c.do(ctx, http.MethodGet, "/api/team-member/"+url.PathEscape(id), nil, "", &out)
	return out, err
}

func (c *Client) CreateTeamMember(ctx context.Context, fields models.TeamMemberFields) (models.TeamMember, error) {
	var out models.TeamMember
	err := c.doJSON(ctx, http.MethodPost, "/api/team-member", fields, &out)
	return out, err
}

func (c *Client) UpdateTeamMember(ctx context.Context, id uuid.UUID, fields models.TeamMemberFields) (models.TeamMember, error) {
	var out models.TeamMember
	err := c.doJSON(ctx, http.MethodPut, "/api/team-member/"+id.String(), fields, &out)
	return out, err
}

func (c *Client) DeleteTeamMember(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/team-member/"+id.String(), nil, "", nil)
}

func (c *Client) ListPortfolioItems(ctx context.Context) (PortfolioItemList, error) {
	var out PortfolioItemList
	err := c.do(ctx, http.MethodGet, "/api/portfolio-items", nil, "", &out)
	return out, err
}

func (c *Client) ListMemberPortfolio(ctx context.Context, memberID uuid.UUID) (PortfolioItemList, error) {
	var out PortfolioItemList
	err := c.do(ctx, http.MethodGet, "/api/team-member/"+memberID.String()+"/portfolio-items", nil, "", &out)
	return out, err
}

func (c *Client) CreatePortfolioItem(ctx context.Context, memberID uuid.UUID, fields models.PortfolioItemFields) (models.PortfolioItem, error) {
	var out models.PortfolioItem
	err := c.doJSON(ctx, http.MethodPost, "/api/team-member/"+memberID.String()+"/portfolio-item", fields, &out)
	return out, err
}

func (c *Client) UpdatePortfolioItem(ctx context.Context, id uuid.UUID, fields models.PortfolioItemFields) (models.PortfolioItem, error) {
	var out models.PortfolioItem
	err := c.doJSON(ctx, http.MethodPut, "/api/portfolio-item/"+id.String(), fields, &out)
	return out, err
}

func (c *Client) DeletePortfolioItem(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/portfolio-item/"+id.String(), nil, "", nil)
}

func (c *Client) Stats(ctx context.Context) (catalog.Stats, error) {
	var out catalog.Stats
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, "", &out)
	return out, err
}

// UploadImage sends an image to the upload endpoint and returns its public
// URL. The folder, content type and size are checked first; a rejected file
// never leaves the process.
func (c *Client) UploadImage(ctx context.Context, folder storage.Folder, filename, contentType string, body io.Reader, size int64) (string, error) {
	if _, err := storage.ParseFolder(string(folder)); err != nil {
		return "", err
	}
	if err := storage.ValidateImage(contentType, size); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("folder", string(folder)); err != nil {
		return "", err
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, io.LimitReader(body, size)); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/upload", &buf, mw.FormDataContentType(), &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(payload), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.password != "" {
		req.Header.Set("Authorization", "Bearer "+c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
