package scoring

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

// Client is the external assessment-scoring collaborator. The only call this
// service makes is requesting creation of a fresh baseline for a legacy
// correlation id that has no baseline yet.
type Client interface {
	CreateBaseline(ctx context.Context, legacyCorrelationID string) (uuid.UUID, error)
}

type httpClient struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

func New(baseURL string, baseLog *logger.Logger) Client {
	return &httpClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     baseLog.With("client", "ScoringClient"),
	}
}

type createBaselineRequest struct {
	LegacyCorrelationID string `json:"legacy_correlation_id"`
}

type createBaselineResponse struct {
	ID string `json:"id"`
}

func (c *httpClient) CreateBaseline(ctx context.Context, legacyCorrelationID string) (uuid.UUID, error) {
	if c.baseURL == "" {
		return uuid.Nil, apierr.DependencyUnavailable("scoring_service_unconfigured", fmt.Errorf("no scoring service URL configured"))
	}
	if strings.TrimSpace(legacyCorrelationID) == "" {
		return uuid.Nil, apierr.Validation("missing_legacy_correlation_id", fmt.Errorf("legacy correlation id is required"))
	}

	body, err := json.Marshal(createBaselineRequest{LegacyCorrelationID: legacyCorrelationID})
	if err != nil {
		return uuid.Nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/baselines", bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return uuid.Nil, apierr.DependencyUnavailable("scoring_service_unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return uuid.Nil, apierr.DependencyUnavailable("scoring_service_error", fmt.Errorf("scoring service returned %d", resp.StatusCode))
	}

	var out createBaselineResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return uuid.Nil, apierr.DependencyUnavailable("scoring_service_bad_response", err)
	}
	id, err := uuid.Parse(out.ID)
	if err != nil {
		return uuid.Nil, apierr.DependencyUnavailable("scoring_service_bad_id", err)
	}
	return id, nil
}
