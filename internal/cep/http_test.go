package cep_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/cep"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	addr *cep.Address
	err  error
	got  string
}

func (s *stubLookup) Lookup(_ context.Context, code string) (*cep.Address, error) {
	s.got = code
	return s.addr, s.err
}

func serve(t *testing.T, lookup cep.Lookuper, target string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	cep.NewHandler(lookup, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_BuscarCEP(t *testing.T) {
	stub := &stubLookup{addr: &cep.Address{CEP: "01001-000", Cidade: "São Paulo", Estado: "SP"}}

	w := serve(t, stub, "/buscar-cep/01001-000")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "01001-000", stub.got)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "São Paulo", body["cidade"])
	assert.Equal(t, "SP", body["estado"])
	assert.Contains(t, body, "logradouro")
	assert.Contains(t, body, "bairro")
}

func TestHandler_BuscarCEP_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"invalid", cep.ErrInvalidCEP, http.StatusBadRequest, "CEP deve ter 8 dígitos"},
		{"not found", cep.ErrCEPNotFound, http.StatusNotFound, "CEP não encontrado"},
		{"upstream", &cep.UpstreamError{Cause: errors.New("timeout")}, http.StatusInternalServerError, "Erro ao buscar CEP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, &stubLookup{err: tt.err}, "/buscar-cep/12345678")
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}
