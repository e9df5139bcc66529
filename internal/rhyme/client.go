// Package rhyme wraps the RhymeBrain-style word lookup API and normalizes its
// responses into the internal rhyme-result shape.
package rhyme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/avillega/rimario/internal/model"
)

const (
	defaultBaseURL = "https://rhymebrain.com/talk"
	providerLang   = "es" // fixed to Spanish-language mode

	// Synonym-expanded search caps.
	maxSynonyms       = 3
	synonymLookupSize = 10

	// Approximate rhymes sit below this provider score.
	nearRhymeMaxScore = 300
)

// Client issues lookups against the rhyme provider. When a proxy URL is
// configured, requests that fail directly are retried through it before the
// failure is classified.
type Client struct {
	baseURL  string
	proxyURL string
	httpc    *http.Client
	log      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the provider endpoint (tests).
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithProxy sets a pass-through proxy prefix tried after a direct failure.
func WithProxy(u string) Option { return func(c *Client) { c.proxyURL = u } }

// WithHTTPClient overrides the transport.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }

// WithLogger sets the logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// New constructs a provider client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpc:   http.DefaultClient,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// record is the provider's raw response shape.
type record struct {
	Word      string `json:"word"`
	Score     int    `json:"score"`
	Syllables int    `json:"syllables"`
	Flags     string `json:"flags"`
}

// SearchRhymes returns rhymes for word after score filtering and flag→tag
// mapping. On a network-class transport failure it degrades to the built-in
// offline sample set instead of failing; any other error propagates.
func (c *Client) SearchRhymes(ctx context.Context, word string, f model.SearchFilters) ([]model.Rhyme, error) {
	if strings.TrimSpace(word) == "" {
		return nil, errors.New("empty search word")
	}
	recs, err := c.lookup(ctx, "getRhymes", word, f.MaxResults)
	if err != nil {
		if IsNetworkError(err) {
			c.log.Warn("rhyme provider unreachable, serving offline samples",
				zap.String("word", word), zap.Error(err))
			return OfflineSamples(word), nil
		}
		return nil, err
	}
	return normalize(recs, f.MinScore, f.IncludeSyllables), nil
}

// SearchNearRhymes returns approximate rhymes: same lookup as SearchRhymes,
// keeping only scores below the exact-rhyme band.
func (c *Client) SearchNearRhymes(ctx context.Context, word string, f model.SearchFilters) ([]model.Rhyme, error) {
	if strings.TrimSpace(word) == "" {
		return nil, errors.New("empty search word")
	}
	recs, err := c.lookup(ctx, "getRhymes", word, f.MaxResults)
	if err != nil {
		return nil, err
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.Score < nearRhymeMaxScore {
			kept = append(kept, r)
		}
	}
	return normalize(kept, f.MinScore, f.IncludeSyllables), nil
}

// SearchSynonymRhymes looks up synonyms for word, then rhymes for the first
// three synonyms one at a time. Per-synonym lookup failures skip that synonym.
// The merged results are deduplicated by word keeping the first occurrence,
// filtered by score, sorted descending and capped at f.MaxResults.
func (c *Client) SearchSynonymRhymes(ctx context.Context, word string, f model.SearchFilters) ([]model.Rhyme, error) {
	if strings.TrimSpace(word) == "" {
		return nil, errors.New("empty search word")
	}
	syns, err := c.lookup(ctx, "getSynonyms", word, synonymLookupSize)
	if err != nil {
		return nil, err
	}
	if len(syns) > maxSynonyms {
		syns = syns[:maxSynonyms]
	}

	var merged []model.Rhyme
	for _, syn := range syns {
		recs, err := c.lookup(ctx, "getRhymes", syn.Word, synonymLookupSize)
		if err != nil {
			c.log.Warn("synonym rhyme lookup failed",
				zap.String("synonym", syn.Word), zap.Error(err))
			continue
		}
		merged = append(merged, normalize(recs, 0, f.IncludeSyllables)...)
	}
	return postprocess(merged, f), nil
}

// SearchBySyllables issues a generic word lookup and keeps words whose
// syllable count equals the pattern's length.
func (c *Client) SearchBySyllables(ctx context.Context, pattern string, f model.SearchFilters) ([]model.Rhyme, error) {
	if pattern == "" {
		return nil, errors.New("empty syllable pattern")
	}
	recs, err := c.lookup(ctx, "getWords", "", f.MaxResults)
	if err != nil {
		return nil, err
	}
	want := utf8.RuneCountInString(pattern)
	kept := recs[:0]
	for _, r := range recs {
		if r.Syllables == want {
			kept = append(kept, r)
		}
	}
	return normalize(kept, f.MinScore, f.IncludeSyllables), nil
}

// WordInfo returns the provider's metadata for a single word.
func (c *Client) WordInfo(ctx context.Context, word string) (model.WordInfo, error) {
	if strings.TrimSpace(word) == "" {
		return model.WordInfo{}, errors.New("empty word")
	}
	body, err := c.get(ctx, c.queryURL("getWordInfo", word, 0))
	if err != nil {
		return model.WordInfo{}, err
	}
	var info model.WordInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return model.WordInfo{}, fmt.Errorf("decode word info: %w", err)
	}
	return info, nil
}

func (c *Client) lookup(ctx context.Context, function, word string, maxResults int) ([]record, error) {
	body, err := c.get(ctx, c.queryURL(function, word, maxResults))
	if err != nil {
		return nil, err
	}
	var recs []record
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", function, err)
	}
	return recs, nil
}

func (c *Client) queryURL(function, word string, maxResults int) string {
	params := url.Values{}
	params.Set("function", function)
	if word != "" {
		params.Set("word", word)
	}
	params.Set("lang", providerLang)
	if maxResults > 0 {
		params.Set("maxResults", strconv.Itoa(maxResults))
	}
	return c.baseURL + "?" + params.Encode()
}

// get fetches rawURL, retrying through the configured proxy when the direct
// attempt fails. Only after both paths fail is the error returned for
// classification.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	body, directErr := c.fetch(ctx, rawURL)
	if directErr == nil {
		return body, nil
	}
	if c.proxyURL == "" {
		return nil, directErr
	}
	c.log.Debug("direct provider request failed, retrying via proxy", zap.Error(directErr))
	body, proxyErr := c.fetch(ctx, c.proxyURL+rawURL)
	if proxyErr == nil {
		return body, nil
	}
	return nil, fmt.Errorf("provider request failed (direct and proxy): %w", directErr)
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

type statusError struct{ code int }

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.code)
}

// IsNetworkError reports whether err is a transport-level failure (DNS, dial,
// timeout) rather than a provider-side error response. Only these failures
// trigger the offline sample fallback.
func IsNetworkError(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
