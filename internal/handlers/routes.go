// internal/handlers/routes.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"go_vocab_cards/internal/config"
	"go_vocab_cards/internal/middleware"
)

// Handlers は /api 配下にマウントするハンドラ一式
type Handlers struct {
	Account    *AccountHandler
	Assignment *AssignmentHandler
	Term       *TermHandler
}

// RegisterRoutes は /api のルートを登録します。
// パスの綴り (assigments) は既存クライアントとの互換のためそのまま
func RegisterRoutes(r chi.Router, h Handlers, jwtCfg config.JWTConfig) {
	r.Route("/api", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/account/register", h.Account.Register)
		r.Post("/account", h.Account.Token)

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuthMiddleware(jwtCfg))

			r.Get("/account/stats/me", h.Account.MyStats)

			r.Route("/assignments", func(r chi.Router) {
				r.Get("/show-all-assigments", h.Assignment.ListAssignments)
				r.Get("/show-assigment/{id}", h.Assignment.GetAssignment)
				r.Get("/user-assigments", h.Assignment.ListUserAssignments)
				r.Post("/create-assignment", h.Assignment.CreateAssignment)
				r.Post("/{id}/question-answer", h.Assignment.Answer)
				r.Post("/{id}/switch-direction", h.Assignment.SwitchDirection)
				r.Post("/{id}/mark-unsolved", h.Assignment.MarkUnsolved)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Delete("/{id}", h.Assignment.DeleteAssignment)
					r.Post("/generate", h.Assignment.Generate)
					r.Post("/add-assigments-to-user", h.Assignment.AddAssignmentsToUser)
				})
			})

			r.Route("/terms", func(r chi.Router) {
				r.Get("/show-all-terms", h.Term.ListTerms)
				r.Get("/show-term/{id}", h.Term.GetTerm)
				r.Post("/translate", h.Term.Translate)
				r.Get("/user-terms", h.Term.ListUserTerms)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/create", h.Term.CreateTerm)
					r.Put("/change-term/{id}", h.Term.UpdateTerm)
					r.Delete("/{id}", h.Term.DeleteTerm)
				})
			})
		})
	})
}

// HealthCheck はDBへの疎通を確認します
func HealthCheck(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}
