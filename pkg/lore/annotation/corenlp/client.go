package corenlp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kedarbellare/lore/pkg/lore/annotation"
	"github.com/kedarbellare/lore/pkg/lore/internalerr"
)

// DefaultAnnotators is the pipeline pattern extraction needs.
const DefaultAnnotators = "tokenize,ssplit,pos,lemma,ner,parse,dcoref"

// Client annotates text with a running CoreNLP server. It is safe for
// concurrent use once constructed.
type Client struct {
	BaseURL    string
	Annotators string

	HTTPClient *http.Client
	// Limiter throttles requests when set.
	Limiter *rate.Limiter

	once     sync.Once
	endpoint string
	client   *http.Client
	initErr  error
}

var _ annotation.Annotator = (*Client)(nil)

// NewLimiter returns a limiter admitting rps requests per second, or nil
// when rps is not positive.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

func (c *Client) init() {
	c.client = c.HTTPClient
	if c.client == nil {
		c.client = &http.Client{Timeout: 60 * time.Second}
	}
	if c.BaseURL == "" {
		c.initErr = fmt.Errorf("corenlp: base URL required: %w", internalerr.ErrInvalidConfig)
		return
	}
	annotators := c.Annotators
	if annotators == "" {
		annotators = DefaultAnnotators
	}
	props, err := json.Marshal(map[string]string{
		"annotators":   annotators,
		"outputFormat": "json",
	})
	if err != nil {
		c.initErr = err
		return
	}
	c.endpoint = strings.TrimRight(c.BaseURL, "/") + "/?properties=" + url.QueryEscape(string(props))
}

// Annotate sends text to the server and decodes its reply.
func (c *Client) Annotate(ctx context.Context, text string) (*annotation.Document, error) {
	c.once.Do(c.init)
	if c.initErr != nil {
		return nil, c.initErr
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("corenlp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("corenlp: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return Decode(resp.Body)
}
