package translate

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
)

// ErrUnavailable indicates no translation backend is configured.
var ErrUnavailable = errors.New("translation provider unavailable")

// Provider performs a single outbound translation.
type Provider interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// NewProvider returns a Google Cloud Translation provider when an API key is
// configured, otherwise a provider that always reports ErrUnavailable.
func NewProvider(cfg *Config, client *http.Client) Provider {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return unavailable{}
	}
	if client == nil {
		client = &http.Client{}
	}
	return &google{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   client,
	}
}

type unavailable struct{}

func (unavailable) Translate(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}

type google struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type googleRequest struct {
	Q      string `json:"q"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type googleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

func (g *google) Translate(ctx context.Context, text, target string) (string, error) {
	body, err := json.Marshal(googleRequest{Q: text, Target: target, Format: "text"})
	if err != nil {
		return "", fmt.Errorf("encode translation request: %w", err)
	}

	endpoint := g.endpoint + "?key=" + url.QueryEscape(g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send translation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("translation returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	if len(result.Data.Translations) == 0 || result.Data.Translations[0].TranslatedText == "" {
		return "", fmt.Errorf("translation response empty")
	}

	return result.Data.Translations[0].TranslatedText, nil
}
