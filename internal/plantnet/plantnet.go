// Package plantnet identifies plants through the Pl@ntNet API. It is the
// secondary identifier consulted when the local classifier is not trusted.
package plantnet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/floraguard/internal/toxicity"
)

const (
	userAgent       = "FloraGuard/1.0"
	defaultFilename = "image.jpg"
	unknownPlant    = "Unknown Plant"
)

type response struct {
	Results []result `json:"results"`
}

type result struct {
	Score   float64 `json:"score"`
	Species struct {
		ScientificNameWithoutAuthor string   `json:"scientificNameWithoutAuthor"`
		CommonNames                 []string `json:"commonNames"`
	} `json:"species"`
}

// Client submits images to Pl@ntNet and reduces the response to its top
// ranked candidate.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a Client. A nil httpClient gets one bounded by cfg's timeout.
func New(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.TimeoutDuration()}
	}
	return &Client{
		cfg:    cfg,
		client: httpClient,
		logger: logger.With("system", "plantnet"),
	}
}

// Identify returns the top candidate for image, or nil when the service is
// unreachable, rejects the request, or has no match. Failures are logged and
// never returned.
func (c *Client) Identify(ctx context.Context, image []byte) *toxicity.Candidate {
	candidate, err := c.identify(ctx, image)
	if err != nil {
		c.logger.Warn("identification unavailable", "error", err)
		return nil
	}
	if candidate == nil {
		c.logger.Info("no identification match")
		return nil
	}

	c.logger.Info(
		"identification match",
		"scientific_name", candidate.ScientificName,
		"common_name", candidate.CommonName,
		"confidence", candidate.Confidence,
	)
	return candidate
}

func (c *Client) identify(ctx context.Context, image []byte) (*toxicity.Candidate, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("no api key configured")
	}

	body, contentType, err := multipartImage(image)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("plantnet returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var data response
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(data.Results) == 0 {
		return nil, nil
	}

	return data.Results[0].candidate(), nil
}

func (c *Client) endpoint() string {
	params := url.Values{}
	params.Set("api-key", c.cfg.APIKey)
	params.Set("include-related-images", "false")
	params.Set("lang", c.cfg.Lang)

	sep := "?"
	if strings.Contains(c.cfg.URL, "?") {
		sep = "&"
	}
	return c.cfg.URL + sep + params.Encode()
}

func (r result) candidate() *toxicity.Candidate {
	scientific := strings.TrimSpace(r.Species.ScientificNameWithoutAuthor)
	if scientific == "" {
		scientific = unknownPlant
	}

	common := scientific
	if len(r.Species.CommonNames) > 0 && strings.TrimSpace(r.Species.CommonNames[0]) != "" {
		common = r.Species.CommonNames[0]
	}

	return &toxicity.Candidate{
		ScientificName: scientific,
		CommonName:     common,
		Confidence:     r.Score,
	}
}

func multipartImage(image []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("images", defaultFilename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("write image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
