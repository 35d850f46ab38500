package cep

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	lookup Lookuper
	logger *slog.Logger
}

func NewHandler(lookup Lookuper, logger *slog.Logger) *Handler {
	return &Handler{
		lookup: lookup,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/buscar-cep/{cep}", h.BuscarCEP)
}

func (h *Handler) BuscarCEP(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "cep")

	h.logger.InfoContext(r.Context(), "looking up cep", "cep", code)
	addr, err := h.lookup.Lookup(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCEP):
			httputil.RespondWithError(w, http.StatusBadRequest, "CEP deve ter 8 dígitos")
		case errors.Is(err, ErrCEPNotFound):
			httputil.RespondWithError(w, http.StatusNotFound, "CEP não encontrado")
		default:
			h.logger.ErrorContext(r.Context(), "cep lookup failed", "cep", code, "error", err)
			httputil.RespondWithError(w, http.StatusInternalServerError, "Erro ao buscar CEP")
		}
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, addr)
}
