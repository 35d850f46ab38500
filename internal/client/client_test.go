package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/aluno"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	body   map[string]interface{}
}

func newServer(t *testing.T, status int, response string) (*client.Client, *recorded) {
	t.Helper()

	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return client.New(srv.URL + "/"), rec
}

func TestClient_CreateAluno(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{
		"status": "adicionado com sucesso",
		"aluno": {"_id": "7b0e4f60-3f0c-4c57-8d0e-7c1a3b1f2a10", "matricula": "20260042", "nome": "Ana", "cursos": ["DSM"]}
	}`)

	resp, err := c.CreateAluno(context.Background(), aluno.AlunoRequest{
		Nome:     "Ana",
		Endereco: &aluno.Endereco{CEP: "01001000", Logradouro: "Praça da Sé", Cidade: "São Paulo", Bairro: "Sé", Estado: "SP", Numero: "10"},
		Cursos:   []string{"DSM"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/alunos", rec.path)
	assert.Equal(t, "Ana", rec.body["nome"])
	assert.Equal(t, "adicionado com sucesso", resp.Status)
	assert.Equal(t, "20260042", resp.Aluno.Matricula)
	assert.Equal(t, "7b0e4f60-3f0c-4c57-8d0e-7c1a3b1f2a10", resp.Aluno.ID.String())
}

func TestClient_Routes(t *testing.T) {
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		c, rec := newServer(t, http.StatusOK, `{"status":"sucesso","total":0,"alunos":[]}`)
		resp, err := c.ListAlunos(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/alunos", rec.path)
		assert.Equal(t, 0, resp.Total)
	})

	t.Run("get", func(t *testing.T) {
		c, rec := newServer(t, http.StatusOK, `{"status":"sucesso","aluno":{"nome":"Ana"}}`)
		resp, err := c.GetAluno(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "/alunos/abc", rec.path)
		assert.Equal(t, "Ana", resp.Aluno.Nome)
	})

	t.Run("update", func(t *testing.T) {
		c, rec := newServer(t, http.StatusOK, `{"status":"atualizado com sucesso","aluno":{"nome":"Bia"}}`)
		_, err := c.UpdateAluno(ctx, "abc", aluno.AlunoRequest{Nome: "Bia"})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, rec.method)
		assert.Equal(t, "/alunos/abc", rec.path)
	})

	t.Run("delete by matricula", func(t *testing.T) {
		c, rec := newServer(t, http.StatusOK, `{"status":"deletado com sucesso","aluno":{},"confirmacao":"ok"}`)
		resp, err := c.DeleteAlunoByMatricula(ctx, "20260042")
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, rec.method)
		assert.Equal(t, "/alunos/matricula/20260042", rec.path)
		assert.Equal(t, "ok", resp.Confirmacao)
	})

	t.Run("cep", func(t *testing.T) {
		c, rec := newServer(t, http.StatusOK, `{"cep":"01001-000","cidade":"São Paulo","estado":"SP"}`)
		addr, err := c.BuscarCEP(ctx, "01001000")
		require.NoError(t, err)
		assert.Equal(t, "/buscar-cep/01001000", rec.path)
		assert.Equal(t, "São Paulo", addr.Cidade)
	})
}

func TestClient_APIError(t *testing.T) {
	c, _ := newServer(t, http.StatusNotFound, `{"error":"Aluno não encontrado"}`)

	_, err := c.DeleteAluno(context.Background(), "abc")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Aluno não encontrado", apiErr.Message)
}

func TestClient_APIErrorFallbackMessage(t *testing.T) {
	c, _ := newServer(t, http.StatusBadGateway, `bad gateway`)

	_, err := c.ListAlunos(context.Background())
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Erro ao buscar alunos", apiErr.Message)
}

func TestClient_IsOnline(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"status":"ok"}`)
	assert.True(t, c.IsOnline(context.Background()))
	assert.Equal(t, "/", rec.path)

	srv := httptest.NewServer(http.NotFoundHandler())
	offline := client.New(srv.URL)
	srv.Close()
	assert.False(t, offline.IsOnline(context.Background()))
}
