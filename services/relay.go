package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpupo63/virtuality-fashion-backend/config"
	"github.com/rs/zerolog/log"
)

const DefaultRelayEndpoint = "https://api.web3forms.com/submit"

var (
	// ErrRelayRejected means the relay answered but did not report success.
	ErrRelayRejected = errors.New("form relay rejected submission")
	// ErrRelayUnreachable means no usable answer came back.
	ErrRelayUnreachable = errors.New("form relay unreachable")
)

// RelayResponse is the body returned by the form relay.
type RelayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FormRelay forwards lead submissions to a third-party form relay (web3forms).
type FormRelay struct {
	endpoint  string
	accessKey string
	client    *http.Client
}

// NewFormRelay reads RELAY_ENDPOINT, RELAY_ACCESS_KEY and RELAY_TIMEOUT_SECONDS.
// A nil client gets a default one with that timeout.
func NewFormRelay(cfg map[string]string, client *http.Client) *FormRelay {
	if client == nil {
		client = &http.Client{Timeout: config.GetSeconds(cfg, "RELAY_TIMEOUT_SECONDS", 15)}
	}
	return &FormRelay{
		endpoint:  config.GetString(cfg, "RELAY_ENDPOINT", DefaultRelayEndpoint),
		accessKey: config.GetString(cfg, "RELAY_ACCESS_KEY", ""),
		client:    client,
	}
}

// Submit posts {access_key, ...fields, subject} as JSON.
//
// Returns:
//   - ErrRelayUnreachable (wrapped) on transport failures or an unreadable body
//   - ErrRelayRejected (wrapped) when the relay reports success=false
func (r *FormRelay) Submit(ctx context.Context, subject string, fields map[string]any) error {
	payload := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		payload[k] = v
	}
	payload["access_key"] = r.accessKey
	payload["subject"] = subject

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRelayUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRelayUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrRelayUnreachable, err)
	}
	var result RelayResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("%w: status %d: decode response: %w", ErrRelayUnreachable, resp.StatusCode, err)
	}
	if !result.Success {
		log.Warn().Int("status", resp.StatusCode).Str("message", result.Message).Msg("form relay rejected submission")
		return fmt.Errorf("%w: status %d: %s", ErrRelayRejected, resp.StatusCode, result.Message)
	}
	return nil
}
