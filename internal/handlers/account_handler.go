package handlers

import (
	"net/http"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"
	"go_vocab_cards/internal/service"
	"go_vocab_cards/internal/webutil"
)

type AccountHandler struct {
	service service.AccountService
}

func NewAccountHandler(s service.AccountService) *AccountHandler {
	return &AccountHandler{service: s}
}

// Register は新規ユーザーを登録します
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.RegisterRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		logger.Warn("Registration failed in service", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusCreated, user, logger)
}

// Token はログイン名とパスワードを検証してアクセストークンを発行します
func (h *AccountHandler) Token(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.LoginRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		logger.Warn("Validation failed for token request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.IssueToken(r.Context(), &req)
	if err != nil {
		logger.Warn("Token issuance failed", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Token issued", "login", resp.Username, "role", resp.Role)
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// MyStats は認証済みユーザーの学習統計を返します
func (h *AccountHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	login, err := middleware.GetLoginFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	stats, err := h.service.MyStats(r.Context(), login)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}
