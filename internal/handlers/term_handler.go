// internal/handlers/term_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"
	"go_vocab_cards/internal/service"
	"go_vocab_cards/internal/webutil"
)

type TermHandler struct {
	service service.TermService
}

func NewTermHandler(s service.TermService) *TermHandler {
	return &TermHandler{service: s}
}

func (h *TermHandler) ListTerms(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListTerms")

	terms, err := h.service.ListTerms(r.Context())
	if err != nil {
		logServiceError(logger, "Error listing terms", err)
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Debug("Terms listed", slog.Int("count", len(terms)))
	webutil.RespondWithJSON(w, http.StatusOK, terms, logger)
}

func (h *TermHandler) GetTerm(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetTerm")

	id, err := webutil.PathID(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	term, err := h.service.GetTerm(r.Context(), id)
	if err != nil {
		logServiceError(logger, "Error getting term", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, term, logger)
}

func (h *TermHandler) CreateTerm(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "CreateTerm")

	var req model.TermRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	term, err := h.service.CreateTerm(r.Context(), &req)
	if err != nil {
		logServiceError(logger, "Error creating term", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, term, logger)
}

func (h *TermHandler) UpdateTerm(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "UpdateTerm")

	id, err := webutil.PathID(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.TermRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.UpdateTerm(r.Context(), id, &req); err != nil {
		logServiceError(logger, "Error updating term", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondNoContent(w)
}

func (h *TermHandler) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeleteTerm")

	id, err := webutil.PathID(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.DeleteTerm(r.Context(), id); err != nil {
		logServiceError(logger, "Error deleting term", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondNoContent(w)
}

func (h *TermHandler) Translate(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "Translate")

	login, err := middleware.GetLoginFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.TranslateRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Translate(r.Context(), login, &req)
	if err != nil {
		logServiceError(logger, "Error translating", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *TermHandler) ListUserTerms(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListUserTerms")

	login, err := middleware.GetLoginFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	rows, err := h.service.ListUserTerms(r.Context(), login)
	if err != nil {
		logServiceError(logger, "Error listing user terms", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, rows, logger)
}
