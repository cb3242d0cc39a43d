package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/apierr"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
)

// Client is the primary compute service that turns pending interpretation
// jobs into completed ones. Any transport failure, non-2xx status or timeout
// means the primary path declined; the reconciler then runs its own fallback.
type Client interface {
	ProcessPending(ctx context.Context, userID uuid.UUID) (int, error)
}

type httpClient struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// New builds the compute client. The timeout is deliberately short: an
// unavailable compute service must not stall the fallback path. An empty
// baseURL yields a client that always declines.
func New(baseURL string, timeout time.Duration, baseLog *logger.Logger) Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
		log:     baseLog.With("client", "ComputeClient"),
	}
}

type processRequest struct {
	UserID string `json:"user_id"`
}

type processResponse struct {
	Processed int `json:"processed"`
}

func (c *httpClient) ProcessPending(ctx context.Context, userID uuid.UUID) (int, error) {
	if c.baseURL == "" {
		return 0, apierr.DependencyUnavailable("compute_service_unconfigured", fmt.Errorf("no compute service URL configured"))
	}
	if userID == uuid.Nil {
		return 0, apierr.Validation("missing_user_id", fmt.Errorf("user id is required"))
	}

	body, err := json.Marshal(processRequest{UserID: userID.String()})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/interpretations/process", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Compute service unreachable", "error", err)
		return 0, apierr.DependencyUnavailable("compute_service_unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("Compute service returned non-success status", "status", resp.StatusCode)
		return 0, apierr.DependencyUnavailable("compute_service_error", fmt.Errorf("compute service returned %d", resp.StatusCode))
	}

	var out processResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.log.Warn("Compute service response could not be decoded", "error", err)
		return 0, apierr.DependencyUnavailable("compute_service_bad_response", err)
	}
	return out.Processed, nil
}
