// internal/extract/extract.go
package extract

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/mockmate/backend/internal/upstream"
)

const maxBodyBytes = 4 << 20

// Fetcher turns profile and job description URLs into plain text. HTML pages
// are stripped to their visible text; anything else is passed through as-is.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Text fetches one URL and returns its plain-text content. Failures are
// upstream errors: the extraction collaborator is not locally recoverable.
func (f *Fetcher) Text(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", upstream.Errorf("extractor", err, "build request for %s", url)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", upstream.Errorf("extractor", err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", upstream.Errorf("extractor", nil, "fetch %s: status %d", url, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		return htmlToText(body)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", upstream.Errorf("extractor", err, "read %s", url)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Pair fetches profile and JD URLs concurrently. Either URL may be empty, in
// which case its result is the empty string.
func (f *Fetcher) Pair(ctx context.Context, profileURL, jdURL string) (string, string, error) {
	var profile, jd string

	g, ctx := errgroup.WithContext(ctx)
	if profileURL != "" {
		g.Go(func() error {
			var err error
			profile, err = f.Text(ctx, profileURL)
			return err
		})
	}
	if jdURL != "" {
		g.Go(func() error {
			var err error
			jd, err = f.Text(ctx, jdURL)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return profile, jd, nil
}

// htmlToText strips markup down to the visible text, one line per text node,
// with script and style contents removed.
func htmlToText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", upstream.Errorf("extractor", err, "parse html")
	}

	doc.Find("script, style, noscript").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
