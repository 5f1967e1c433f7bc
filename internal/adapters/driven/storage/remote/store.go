package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vitae-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.BuildStore = (*Store)(nil)

// defaultRate is used when Config.Rate is not positive.
const defaultRate = 5.0

var log = logger.For("remote")

// Config configures the remote store.
type Config struct {
	// BaseURL is the API root, e.g. https://api.example.com/v1.
	BaseURL string

	// Token is sent as a bearer token. Empty disables authentication.
	Token string

	// Rate is the request budget in requests per second.
	Rate float64

	// HTTPClient overrides the base transport. The bearer token is layered on top.
	HTTPClient *http.Client
}

// Store talks to the hosted builds API.
type Store struct {
	base    *url.URL
	client  *http.Client
	limiter *rateLimiter
}

// summary is the wire form of a listing entry.
type summary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Thumbnail  string    `json:"thumbnail,omitempty"`
	TemplateID string    `json:"templateId"`
}

// NewStore creates a remote store.
func NewStore(cfg Config) (*Store, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: remote base url %q", domain.ErrInvalidInput, cfg.BaseURL)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	}

	rate := cfg.Rate
	if rate <= 0 {
		rate = defaultRate
	}

	return &Store{
		base:    base,
		client:  client,
		limiter: newRateLimiter(rate),
	}, nil
}

// Create stores a new build.
func (s *Store) Create(ctx context.Context, payload domain.Payload) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := s.do(ctx, http.MethodPost, "builds", payload, &out); err != nil {
		return "", &domain.PersistenceError{Op: "create", Err: err}
	}
	if out.ID == "" {
		return "", &domain.PersistenceError{Op: "create", Err: errors.New("response has no build id")}
	}
	return out.ID, nil
}

// Update replaces the payload of an existing build.
func (s *Store) Update(ctx context.Context, buildID string, payload domain.Payload) (time.Time, error) {
	var out struct {
		UpdatedAt time.Time `json:"updatedAt"`
	}
	if err := s.do(ctx, http.MethodPut, "builds/"+url.PathEscape(buildID), payload, &out); err != nil {
		return time.Time{}, &domain.PersistenceError{Op: "update", BuildID: buildID, Err: err}
	}
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = time.Now().UTC()
	}
	return out.UpdatedAt, nil
}

// Get retrieves a build payload.
func (s *Store) Get(ctx context.Context, buildID string) (*domain.Payload, error) {
	var payload domain.Payload
	if err := s.do(ctx, http.MethodGet, "builds/"+url.PathEscape(buildID), nil, &payload); err != nil {
		return nil, fmt.Errorf("get build %s: %w", buildID, err)
	}
	return &payload, nil
}

// List returns build summaries in the order the API sends them.
func (s *Store) List(ctx context.Context) ([]domain.BuildSummary, error) {
	var wire []summary
	if err := s.do(ctx, http.MethodGet, "builds", nil, &wire); err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	out := make([]domain.BuildSummary, 0, len(wire))
	for _, w := range wire {
		out = append(out, domain.BuildSummary{
			BuildID:    w.ID,
			Title:      w.Title,
			UpdatedAt:  w.UpdatedAt,
			Thumbnail:  w.Thumbnail,
			TemplateID: w.TemplateID,
		})
	}
	return out, nil
}

// Delete removes a build.
func (s *Store) Delete(ctx context.Context, buildID string) error {
	if err := s.do(ctx, http.MethodDelete, "builds/"+url.PathEscape(buildID), nil, nil); err != nil {
		return fmt.Errorf("delete build %s: %w", buildID, err)
	}
	return nil
}

// do sends one request. body and out may be nil.
func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base.String()+"/"+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug("%s %s", method, req.URL.Path)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		s.limiter.Backoff(retryAfter(resp.Header, time.Now()))
		log.Warn("rate limited until %s", s.limiter.RetryAt().Format(time.RFC3339))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
