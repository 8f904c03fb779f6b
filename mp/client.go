// Package mp is a thin client for the Materials Project API, used as the
// recipe lookup backend of the recursive search.
package mp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/synthkit/synthkit/model"
)

const defaultBaseURL = "https://api.materialsproject.org"

// SummaryDoc is the subset of the summary endpoint response the search cares
// about.
type SummaryDoc struct {
	MaterialID      string  `json:"material_id"`
	FormulaPretty   string  `json:"formula_pretty"`
	EnergyAboveHull float64 `json:"energy_above_hull"`
	IsStable        bool    `json:"is_stable"`
}

// Client calls the Materials Project REST API. Failures surface as lookup
// failures which the search engine fault-isolates per branch; there is no
// retry logic.
type Client struct {
	// BaseURL can be pointed at a test server.
	BaseURL string

	apiKey string
	http   *http.Client
	log    *slog.Logger
}

// NewClient creates a client with an explicit API key.
func NewClient(apiKey string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("materials project api key is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL: defaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logger,
	}, nil
}

// NewClientFromEnv creates a client with the key from MP_API_KEY, loading a
// .env file first if one exists.
func NewClientFromEnv(logger *slog.Logger) (*Client, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("MP_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("MP_API_KEY environment variable not set")
	}
	return NewClient(apiKey, logger)
}

// dataEnvelope is the common {"data": [...]} response wrapper.
type dataEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*dataEnvelope, error) {
	u := fmt.Sprintf("%s%s?%s", c.BaseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", model.ErrLookupFailure, err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrLookupFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", model.ErrLookupFailure, path, resp.StatusCode)
	}

	envelope := &dataEnvelope{}
	if err := json.NewDecoder(resp.Body).Decode(envelope); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", model.ErrLookupFailure, err)
	}
	return envelope, nil
}

// RecipesByFormula retrieves synthesis recipes targeting a formula. The recipe
// records are passed through undecoded.
func (c *Client) RecipesByFormula(ctx context.Context, formula string) ([]model.Recipe, error) {
	query := url.Values{}
	query.Set("target_formula", formula)

	envelope, err := c.get(ctx, "/materials/synthesis/", query)
	if err != nil {
		return nil, err
	}

	recipes := make([]model.Recipe, len(envelope.Data))
	for i, raw := range envelope.Data {
		recipes[i] = model.Recipe(raw)
	}

	c.log.Debug("Fetched synthesis recipes",
		slog.String("formula", formula),
		slog.Int("count", len(recipes)))

	return recipes, nil
}

// SummaryByMaterialID retrieves the summary document for a material id.
func (c *Client) SummaryByMaterialID(ctx context.Context, materialID string) (*SummaryDoc, error) {
	query := url.Values{}
	query.Set("material_ids", materialID)

	envelope, err := c.get(ctx, "/materials/summary/", query)
	if err != nil {
		return nil, err
	}
	if len(envelope.Data) == 0 {
		return nil, fmt.Errorf("%w: no summary for %s", model.ErrLookupFailure, materialID)
	}

	doc := &SummaryDoc{}
	if err := json.Unmarshal(envelope.Data[0], doc); err != nil {
		return nil, fmt.Errorf("%w: decode summary: %v", model.ErrLookupFailure, err)
	}
	return doc, nil
}
