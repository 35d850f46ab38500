// Package cep resolves Brazilian postal codes through ViaCEP.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/metrics"
)

const DefaultBaseURL = "https://viacep.com.br"

var (
	ErrInvalidCEP  = errors.New("cep must have exactly 8 digits")
	ErrCEPNotFound = errors.New("cep not found")
	ErrUpstream    = errors.New("cep lookup failed")
)

// UpstreamError reports a transport, status or decoding failure of the
// lookup service. It matches ErrUpstream and its cause with errors.Is.
type UpstreamError struct {
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUpstream, e.Cause)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstream, e.Cause}
}

type Address struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Cidade     string `json:"cidade"`
	Bairro     string `json:"bairro"`
	Estado     string `json:"estado"`
}

type Lookuper interface {
	Lookup(ctx context.Context, code string) (*Address, error)
}

type viaCEPResponse struct {
	CEP        string          `json:"cep"`
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro"`
}

// notFound reports whether the erro marker is present with a truthy value.
// ViaCEP has sent it both as a boolean and as the string "true".
func (r *viaCEPResponse) notFound() bool {
	switch strings.TrimSpace(string(r.Erro)) {
	case "", "null", "false", `"false"`, `""`, "0":
		return false
	default:
		return true
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
	}
}

// Normalize strips every non-digit from code and requires 8 digits to remain.
func Normalize(code string) (string, error) {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() != 8 {
		return "", ErrInvalidCEP
	}
	return b.String(), nil
}

// Lookup queries the upstream service once; results are not cached.
func (c *Client) Lookup(ctx context.Context, code string) (*Address, error) {
	normalized, err := Normalize(code)
	if err != nil {
		c.metrics.RecordCEPLookup(ctx, "invalid", 0)
		return nil, err
	}

	start := time.Now()
	addr, err := c.fetch(ctx, normalized)
	c.metrics.RecordCEPLookup(ctx, outcome(err), time.Since(start))

	return addr, err
}

func (c *Client) fetch(ctx context.Context, code string) (*Address, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{Cause: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Cause: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &UpstreamError{Cause: fmt.Errorf("failed to decode response: %w", err)}
	}

	if body.notFound() {
		return nil, ErrCEPNotFound
	}

	return &Address{
		CEP:        body.CEP,
		Logradouro: body.Logradouro,
		Cidade:     body.Localidade,
		Bairro:     body.Bairro,
		Estado:     body.UF,
	}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCEPNotFound):
		return "not_found"
	default:
		return "upstream_error"
	}
}
