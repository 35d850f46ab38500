// Package client is a typed HTTP client for the aluno registration API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/aluno"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/cep"
)

// APIError is returned for any non-2xx response. Message carries the
// server's {error} body, or a per-call fallback when the body has none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BuscarCEP(ctx context.Context, code string) (*cep.Address, error) {
	var addr cep.Address
	if err := c.do(ctx, http.MethodGet, "/buscar-cep/"+url.PathEscape(code), nil, &addr, "Erro ao buscar CEP"); err != nil {
		return nil, err
	}
	return &addr, nil
}

func (c *Client) CreateAluno(ctx context.Context, req aluno.AlunoRequest) (*aluno.AlunoResponse, error) {
	var resp aluno.AlunoResponse
	if err := c.do(ctx, http.MethodPost, "/alunos", req, &resp, "Erro ao criar aluno"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListAlunos(ctx context.Context) (*aluno.ListResponse, error) {
	var resp aluno.ListResponse
	if err := c.do(ctx, http.MethodGet, "/alunos", nil, &resp, "Erro ao buscar alunos"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetAluno(ctx context.Context, id string) (*aluno.AlunoResponse, error) {
	var resp aluno.AlunoResponse
	if err := c.do(ctx, http.MethodGet, "/alunos/"+url.PathEscape(id), nil, &resp, "Erro ao buscar aluno"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateAluno(ctx context.Context, id string, req aluno.AlunoRequest) (*aluno.AlunoResponse, error) {
	var resp aluno.AlunoResponse
	if err := c.do(ctx, http.MethodPut, "/alunos/"+url.PathEscape(id), req, &resp, "Erro ao atualizar aluno"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteAluno(ctx context.Context, id string) (*aluno.DeleteResponse, error) {
	var resp aluno.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/alunos/"+url.PathEscape(id), nil, &resp, "Erro ao deletar aluno"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteAlunoByMatricula(ctx context.Context, matricula string) (*aluno.DeleteResponse, error) {
	var resp aluno.DeleteResponse
	path := "/alunos/matricula/" + url.PathEscape(matricula)
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp, "Erro ao deletar aluno por matrícula"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping calls the root health route.
func (c *Client) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	return c.do(ctx, http.MethodGet, "/", nil, &resp, "Servidor não está respondendo")
}

func (c *Client) IsOnline(ctx context.Context) bool {
	return c.Ping(ctx) == nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: fallback}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
