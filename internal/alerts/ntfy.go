package alerts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const userAgent = "FloraGuard/1.0"

type ntfy struct {
	endpoint string
	client   *http.Client
}

// NewNtfy returns a Notifier that posts to an ntfy topic URL.
func NewNtfy(endpoint string, client *http.Client) Notifier {
	return &ntfy{endpoint: endpoint, client: client}
}

func (n *ntfy) Notify(ctx context.Context, e Event) error {
	title, tags, priority := "FloraGuard - Likely Safe", []string{"floraguard", "safe"}, ""
	if e.Signal == ToxicAlert {
		title, tags, priority = "FloraGuard - Toxic Plant", []string{"floraguard", "toxic", "warning"}, "high"
	}

	message := fmt.Sprintf("%s (%s) %.0f%% via %s", e.CommonName, e.ScientificName, e.Confidence*100, e.Source)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", title)
	req.Header.Set("Tags", strings.Join(tags, ","))
	if priority != "" {
		req.Header.Set("Priority", priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
