package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/alunos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"sucesso","total":1,"alunos":[{"matricula":"20260001","nome":"Ana"}]}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, run([]string{"-url", srv.URL, "list"}, nil, &out))
	assert.Contains(t, out.String(), `"matricula": "20260001"`)
	assert.Contains(t, out.String(), `"total": 1`)
}

func TestRun_APIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Aluno não encontrado"}`))
	}))
	defer srv.Close()

	err := run([]string{"-url", srv.URL, "delete", "abc"}, nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Aluno não encontrado")
}

func TestRun_Usage(t *testing.T) {
	assert.Error(t, run(nil, nil, &bytes.Buffer{}))
	assert.ErrorContains(t, run([]string{"get"}, nil, &bytes.Buffer{}), "requires <id>")
	assert.ErrorContains(t, run([]string{"frobnicate"}, nil, &bytes.Buffer{}), "unknown command")
}

const anaBody = `{
	"nome": "Ana",
	"endereco": {"cep": "01001000", "logradouro": "Praça da Sé", "cidade": "São Paulo", "bairro": "Sé", "estado": "SP", "numero": "10"},
	"cursos": ["DSM"]
}`

type captured struct {
	method string
	path   string
	body   map[string]interface{}
}

func captureServer(t *testing.T, response string) (*httptest.Server, *captured) {
	t.Helper()

	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got.body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestRun_CreateFromStdin(t *testing.T) {
	srv, got := captureServer(t, `{"status":"adicionado com sucesso","aluno":{"matricula":"20260042","nome":"Ana"}}`)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-url", srv.URL, "create"}, strings.NewReader(anaBody), &out))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/alunos", got.path)
	assert.Equal(t, "Ana", got.body["nome"])
	assert.Contains(t, out.String(), `"matricula": "20260042"`)
}

func TestRun_UpdateFromFile(t *testing.T) {
	srv, got := captureServer(t, `{"status":"atualizado com sucesso","aluno":{"nome":"Ana"}}`)

	path := filepath.Join(t.TempDir(), "aluno.json")
	require.NoError(t, os.WriteFile(path, []byte(anaBody), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-url", srv.URL, "-f", path, "update", "abc"}, nil, &out))

	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/alunos/abc", got.path)
	assert.Contains(t, out.String(), "atualizado com sucesso")
}

func TestRun_CreateRejectsBadBody(t *testing.T) {
	err := run([]string{"create"}, strings.NewReader("not json"), &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to decode aluno body")

	assert.ErrorContains(t, run([]string{"update"}, strings.NewReader(anaBody), &bytes.Buffer{}), "requires <id>")
}
