// internal/handlers/assignment_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"
	"go_vocab_cards/internal/service"
	"go_vocab_cards/internal/webutil"
)

type AssignmentHandler struct {
	service service.AssignmentService
}

func NewAssignmentHandler(s service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: s}
}

// handlerLogger はハンドラ名付きのリクエストロガーを返します
func handlerLogger(r *http.Request, name string) *slog.Logger {
	return middleware.GetLogger(r.Context()).With(slog.String("handler", name))
}

// logServiceError は想定内のエラー (4xx) を Info、それ以外を Error で記録します
func logServiceError(logger *slog.Logger, msg string, err error) {
	if webutil.MapErrorToStatusCode(err) < http.StatusInternalServerError {
		logger.Info(msg, slog.Any("error", err))
		return
	}
	logger.Error(msg, slog.Any("error", err))
}

func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListAssignments")

	list, err := h.service.ListAssignments(r.Context())
	if err != nil {
		logServiceError(logger, "Error listing assignments", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, list, logger)
}

func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetAssignment")

	id, err := webutil.PathID(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	a, err := h.service.GetAssignment(r.Context(), id)
	if err != nil {
		logServiceError(logger, "Error getting assignment", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, a, logger)
}

func (h *AssignmentHandler) ListUserAssignments(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListUserAssignments")

	login, err := middleware.GetLoginFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	solved, err := webutil.OptionalBoolQuery(r, "solved")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	rows, err := h.service.ListUserAssignments(r.Context(), login, solved)
	if err != nil {
		logServiceError(logger, "Error listing user assignments", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, rows, logger)
}

func (h *AssignmentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeleteAssignment")

	id, err := webutil.PathID(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.DeleteAssignment(r.Context(), id); err != nil {
		logServiceError(logger, "Error deleting assignment", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondNoContent(w)
}

func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "CreateAssignment")

	login, err := middleware.GetLoginFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.CreateAssignmentRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.CreateForUser(r.Context(), login, &req)
	if err != nil {
		logServiceError(logger, "Error creating assignment", err)
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Assignment created for user", slog.Uint64("assignment_id", uint64(resp.AssignmentID)))
	webutil.RespondWithJSON(w, http.StatusCreated, resp, logger)
}

func (h *AssignmentHandler) Answer(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "Answer")

	login, err := middleware.GetLoginFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	id, err := webutil.PathID(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.AnswerRequest
	if err := webutil.DecodeOptionalJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Answer(r.Context(), id, login, &req)
	if err != nil {
		logServiceError(logger, "Error answering assignment", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *AssignmentHandler) SwitchDirection(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "SwitchDirection")

	login, err := middleware.GetLoginFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	id, err := webutil.PathID(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.SwitchDirection(r.Context(), id, login)
	if err != nil {
		logServiceError(logger, "Error switching direction", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *AssignmentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "Generate")

	var req model.GenerateRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Generate(r.Context(), &req)
	if err != nil {
		logServiceError(logger, "Error generating assignments", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *AssignmentHandler) AddAssignmentsToUser(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "AddAssignmentsToUser")

	var req model.AddAssignmentsRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.AddAssignmentsToUser(r.Context(), &req)
	if err != nil {
		logServiceError(logger, "Error linking assignments to user", err)
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *AssignmentHandler) MarkUnsolved(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "MarkUnsolved")

	login, err := middleware.GetLoginFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	id, err := webutil.PathID(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.MarkUnsolvedRequest
	if err := webutil.DecodeOptionalJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.MarkUnsolved(r.Context(), id, login, &req)
	if err != nil {
		if errors.Is(err, model.ErrForbidden) {
			logger.Warn("Mark unsolved on foreign assignment", slog.Uint64("assignment_id", uint64(id)))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}
