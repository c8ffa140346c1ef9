package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aalvaropc/munson/internal/buildinfo"
	"github.com/aalvaropc/munson/internal/domain"
)

// MediaType is the JSON:API media type used for Accept and Content-Type.
const MediaType = "application/vnd.api+json"

// RequestSpec is one JSON:API request before encoding.
type RequestSpec struct {
	Method  string
	URL     string
	Headers domain.Headers
	// Body is JSON encoded when non-nil.
	Body any
}

// BuildRequest builds an HTTP request carrying the JSON:API headers.
func BuildRequest(ctx context.Context, spec RequestSpec) (*http.Request, error) {
	if strings.TrimSpace(spec.URL) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("request url is empty: %w", domain.ErrInvalidConfig),
		}
	}

	var body *bytes.Reader
	if spec.Body != nil {
		payload, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "httpclient.build",
				Kind: domain.KindInvalidConfig,
				Path: spec.URL,
				Err:  err,
			}
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, spec.URL, body)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Path: spec.URL,
			Err:  err,
		}
	}

	req.Header.Set("Accept", MediaType)
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	if spec.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", MediaType)
	}

	return req, nil
}
