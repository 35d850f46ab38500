package cep_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/cep"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seResponse = `{
	"cep": "01001-000",
	"logradouro": "Praça da Sé",
	"complemento": "lado ímpar",
	"bairro": "Sé",
	"localidade": "São Paulo",
	"uf": "SP",
	"ibge": "3550308"
}`

func newUpstream(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "01001000", want: "01001000"},
		{in: "01001-000", want: "01001000"},
		{in: " 01.001-000 ", want: "01001000"},
		{in: "1234567", wantErr: true},
		{in: "123456789", wantErr: true},
		{in: "abcdefgh", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cep.Normalize(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, cep.ErrInvalidCEP)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Lookup_Success(t *testing.T) {
	var gotPath string
	srv, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(seResponse))
	})

	client := cep.NewClient(srv.URL, time.Second, metrics.NewMock())
	addr, err := client.Lookup(context.Background(), "01001-000")
	require.NoError(t, err)

	assert.Equal(t, "/ws/01001000/json/", gotPath)
	assert.Equal(t, &cep.Address{
		CEP:        "01001-000",
		Logradouro: "Praça da Sé",
		Cidade:     "São Paulo",
		Bairro:     "Sé",
		Estado:     "SP",
	}, addr)
}

func TestClient_Lookup_InvalidMakesNoRequest(t *testing.T) {
	srv, hits := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(seResponse))
	})

	client := cep.NewClient(srv.URL, time.Second, nil)
	_, err := client.Lookup(context.Background(), "1234")

	assert.ErrorIs(t, err, cep.ErrInvalidCEP)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestClient_Lookup_NotFound(t *testing.T) {
	for name, body := range map[string]string{
		"boolean": `{"erro": true}`,
		"string":  `{"erro": "true"}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			client := cep.NewClient(srv.URL, time.Second, nil)
			_, err := client.Lookup(context.Background(), "99999999")
			assert.ErrorIs(t, err, cep.ErrCEPNotFound)
		})
	}
}

func TestClient_Lookup_UpstreamFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := cep.NewClient(srv.URL, time.Second, nil).Lookup(context.Background(), "01001000")
		require.Error(t, err)
		assert.ErrorIs(t, err, cep.ErrUpstream)

		var upstream *cep.UpstreamError
		assert.True(t, errors.As(err, &upstream))
	})

	t.Run("malformed body", func(t *testing.T) {
		srv, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		})

		_, err := cep.NewClient(srv.URL, time.Second, nil).Lookup(context.Background(), "01001000")
		assert.ErrorIs(t, err, cep.ErrUpstream)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := cep.NewClient(url, time.Second, nil).Lookup(context.Background(), "01001000")
		assert.ErrorIs(t, err, cep.ErrUpstream)
		assert.NotErrorIs(t, err, cep.ErrCEPNotFound)
	})
}
