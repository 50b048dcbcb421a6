// Package remote fetches and decodes API description documents from HTTP(S)
// URLs or local files. It sits at the boundary the reconcile package treats
// as external: it produces the decoded document maps the diff and entity
// packages consume, plus the content hash the watch layer uses to skip
// unchanged fetches.
package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oassync"
	"github.com/erraggy/oassync/syncerrors"
)

// Document is one fetched and decoded document version.
type Document struct {
	// Location is the URL or file path the document came from.
	Location string
	// Raw is the decoded document tree: map[string]any, []any, scalars.
	Raw map[string]any
	// Hash is the hex sha256 of the fetched bytes, used for change
	// detection between polls.
	Hash string
	// Size is the fetched byte count.
	Size int64
}

// Fetcher fetches documents. The zero value is usable: it fetches with a
// default client and the module's user agent.
type Fetcher struct {
	// Client is the HTTP client used for URL locations. A nil Client uses
	// a default with a 30 second timeout.
	Client *http.Client
	// UserAgent overrides the User-Agent header sent on URL fetches.
	UserAgent string
}

// IsURL reports whether location is an HTTP or HTTPS URL rather than a
// local file path.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch retrieves and decodes the document at location, a URL or local file
// path. YAML and JSON content are both accepted; JSON is a subset of the
// YAML the decoder reads.
func (f *Fetcher) Fetch(ctx context.Context, location string) (*Document, error) {
	var data []byte
	var err error
	if IsURL(location) {
		data, err = f.fetchURL(ctx, location)
	} else {
		data, err = os.ReadFile(location)
		if err != nil {
			err = &syncerrors.FetchError{Location: location, Message: "failed to read file", Cause: err}
		}
	}
	if err != nil {
		return nil, err
	}

	raw, err := Decode(data)
	if err != nil {
		return nil, &syncerrors.FetchError{Location: location, Message: "failed to decode document", Cause: err}
	}

	sum := sha256.Sum256(data)
	return &Document{
		Location: location,
		Raw:      raw,
		Hash:     hex.EncodeToString(sum[:]),
		Size:     int64(len(data)),
	}, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, urlStr string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &syncerrors.FetchError{Location: urlStr, Message: "failed to create request", Cause: err}
	}

	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = oassync.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &syncerrors.FetchError{Location: urlStr, Message: "failed to fetch URL", Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &syncerrors.FetchError{
			Location:   urlStr,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &syncerrors.FetchError{Location: urlStr, Message: "failed to read response body", Cause: err}
	}
	return data, nil
}

// Decode unmarshals YAML or JSON document bytes into the generic decoded
// form the rest of the module works with: map keys are strings all the way
// down, even where the source used non-string keys (numeric response
// codes, version-like keys).
func Decode(data []byte) (map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("remote: failed to unmarshal document: %w", err)
	}
	doc, ok := normalizeValue(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("remote: document root is not an object")
	}
	return doc, nil
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeValue(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}
