//go:generate go run github.com/golang/mock/mockgen -destination=./mocks/climate_source.go -package=mocks . ClimateSource

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tejusbharadwaj/climatewidget/internal/models"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

var (
	ErrRequest = errors.New("error making climate request")
	ErrStatus  = errors.New("error status from climate endpoint")
	ErrDecode  = errors.New("error decoding climate response")
)

// ClimateSource fetches and parses one climate reading.
type ClimateSource interface {
	FetchLatest(ctx context.Context) (models.ClimateReading, error)
}

// PollFailure is returned for every failed fetch. Kind is one of ErrRequest,
// ErrStatus or ErrDecode and can be matched with errors.Is.
type PollFailure struct {
	Kind       error
	StatusCode int
	Err        error
}

func (e *PollFailure) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: got %d", e.Kind, e.StatusCode)
	default:
		return e.Kind.Error()
	}
}

func (e *PollFailure) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ClimateFetcher implements ClimateSource over HTTP GET against a single URL.
type ClimateFetcher struct {
	apiURL  string
	client  *http.Client
	timeout time.Duration
}

type FetcherOption func(*ClimateFetcher)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *ClimateFetcher) {
		f.client = c
	}
}

// WithTimeout sets the per-request timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *ClimateFetcher) {
		f.timeout = d
	}
}

func NewClimateFetcher(apiURL string, opts ...FetcherOption) *ClimateFetcher {
	f := &ClimateFetcher{
		apiURL:  apiURL,
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the endpoint this fetcher polls.
func (f *ClimateFetcher) URL() string {
	return f.apiURL
}

// FetchRaw issues the GET request and returns the body once it is known to be
// a 2xx response holding valid JSON.
func (f *ClimateFetcher) FetchRaw(ctx context.Context) (json.RawMessage, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiURL, nil)
	if err != nil {
		return nil, &PollFailure{Kind: ErrRequest, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &PollFailure{Kind: ErrRequest, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &PollFailure{Kind: ErrStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &PollFailure{Kind: ErrRequest, Err: err}
	}
	if !json.Valid(body) {
		return nil, &PollFailure{Kind: ErrDecode, Err: errors.New("response body is not valid JSON")}
	}

	return json.RawMessage(body), nil
}

// FetchLatest fetches the endpoint and decodes the body into a ClimateReading.
func (f *ClimateFetcher) FetchLatest(ctx context.Context) (models.ClimateReading, error) {
	raw, err := f.FetchRaw(ctx)
	if err != nil {
		return models.ClimateReading{}, err
	}

	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return models.ClimateReading{}, &PollFailure{Kind: ErrDecode, Err: errors.New("response body is null")}
	}
	// Arrays and scalars carry none of the fields; every slot renders empty.
	if len(raw) == 0 || raw[0] != '{' {
		return models.ClimateReading{}, nil
	}

	var reading models.ClimateReading
	if err := json.Unmarshal(raw, &reading); err != nil {
		return models.ClimateReading{}, &PollFailure{Kind: ErrDecode, Err: err}
	}
	return reading, nil
}

var _ ClimateSource = (*ClimateFetcher)(nil)
