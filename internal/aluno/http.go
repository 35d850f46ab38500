package aluno

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/httputil"

	"github.com/go-chi/chi/v5"
)

const (
	StatusCreated = "adicionado com sucesso"
	StatusOK      = "sucesso"
	StatusUpdated = "atualizado com sucesso"
	StatusDeleted = "deletado com sucesso"

	ConfirmacaoDelete          = "Aluno removido do banco de dados com sucesso"
	ConfirmacaoDeleteMatricula = "Aluno removido do banco de dados com sucesso por matrícula"

	msgMissingFields = "Dados obrigatórios: nome, endereco e cursos"
	msgInvalidID     = "ID de aluno inválido"
	msgDuplicate     = "Matrícula já existe"
	msgNotFound      = "Aluno não encontrado"
	msgNotDeleted    = "Erro: Aluno não foi deletado corretamente"
	msgInternalError = "Erro interno do servidor"
)

type AlunoResponse struct {
	Status string `json:"status"`
	Aluno  *Aluno `json:"aluno"`
}

type ListResponse struct {
	Status string  `json:"status"`
	Total  int     `json:"total"`
	Alunos []Aluno `json:"alunos"`
}

type DeleteResponse struct {
	Status      string `json:"status"`
	Aluno       *Aluno `json:"aluno"`
	Confirmacao string `json:"confirmacao"`
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/alunos", func(r chi.Router) {
		r.Post("/", h.CreateAluno)
		r.Get("/", h.GetAllAlunos)
		r.Get("/{id}", h.GetAluno)
		r.Put("/{id}", h.UpdateAluno)
		r.Delete("/{id}", h.DeleteAluno)
		r.Delete("/matricula/{matricula}", h.DeleteAlunoByMatricula)
	})
}

func (h *Handler) CreateAluno(w http.ResponseWriter, r *http.Request) {
	var req AlunoRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode aluno payload", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	h.logger.InfoContext(r.Context(), "creating aluno", "nome", req.Nome)
	aluno, err := h.service.CreateAluno(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "aluno created", "id", aluno.ID, "matricula", aluno.Matricula)
	httputil.RespondWithJSON(w, http.StatusOK, AlunoResponse{Status: StatusCreated, Aluno: aluno})
}

func (h *Handler) GetAllAlunos(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all alunos")

	alunos, err := h.service.GetAllAlunos(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, ListResponse{
		Status: StatusOK,
		Total:  len(alunos),
		Alunos: alunos,
	})
}

func (h *Handler) GetAluno(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	aluno, err := h.service.GetAlunoByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, AlunoResponse{Status: StatusOK, Aluno: aluno})
}

func (h *Handler) UpdateAluno(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AlunoRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode aluno payload", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	h.logger.InfoContext(r.Context(), "updating aluno", "id", id)
	aluno, err := h.service.UpdateAluno(r.Context(), id, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, AlunoResponse{Status: StatusUpdated, Aluno: aluno})
}

func (h *Handler) DeleteAluno(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	aluno, err := h.service.DeleteAluno(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, DeleteResponse{
		Status:      StatusDeleted,
		Aluno:       aluno,
		Confirmacao: ConfirmacaoDelete,
	})
}

func (h *Handler) DeleteAlunoByMatricula(w http.ResponseWriter, r *http.Request) {
	matricula := chi.URLParam(r, "matricula")

	aluno, err := h.service.DeleteAlunoByMatricula(r.Context(), matricula)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, DeleteResponse{
		Status:      StatusDeleted,
		Aluno:       aluno,
		Confirmacao: ConfirmacaoDeleteMatricula,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, ErrAlunoNotFound):
		h.logger.InfoContext(ctx, "aluno not found", "path", r.URL.Path)
		httputil.RespondWithError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, ErrInvalidID):
		h.logger.InfoContext(ctx, "invalid aluno id", "path", r.URL.Path)
		httputil.RespondWithError(w, http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, ErrInvalidInput):
		h.logger.InfoContext(ctx, "invalid input", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, msgMissingFields)
	case errors.Is(err, ErrDuplicateMatricula):
		h.logger.WarnContext(ctx, "matricula collision")
		httputil.RespondWithError(w, http.StatusBadRequest, msgDuplicate)
	case errors.Is(err, ErrDeleteNotConfirmed):
		h.logger.ErrorContext(ctx, "delete not confirmed", "path", r.URL.Path)
		httputil.RespondWithError(w, http.StatusInternalServerError, msgNotDeleted)
	default:
		h.logger.ErrorContext(ctx, "internal error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, msgInternalError)
	}
}
