package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go_vocab_cards/internal/config"
	"go_vocab_cards/internal/model"
	"go_vocab_cards/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

type authCtxKey struct{}

// Principal は認証済みユーザーの情報
type Principal struct {
	Login string
	Role  string
}

// JWTAuthMiddleware は Authorization ヘッダーの Bearer トークンを検証するミドルウェア
func JWTAuthMiddleware(cfg config.JWTConfig) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "authorization header is required", "", model.ErrUnauthorized))
				return
			}

			headerParts := strings.Fields(authHeader)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "authorization header must be 'Bearer {token}'", "", model.ErrUnauthorized))
				return
			}

			claims := &model.JWTCustomClaims{}
			token, err := parser.ParseWithClaims(headerParts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.SecretKey), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				code, msg := "INVALID_TOKEN", "token is invalid"
				if errors.Is(err, jwt.ErrTokenExpired) {
					code, msg = "TOKEN_EXPIRED", "token has expired"
				}
				webutil.HandleError(w, logger, model.NewAppError(code, msg, "", model.ErrUnauthorized))
				return
			}

			if strings.TrimSpace(claims.Name) == "" {
				logger.Warn("JWT auth failed: name claim missing")
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "token carries no user", "", model.ErrUnauthorized))
				return
			}

			p := Principal{Login: claims.Name, Role: claims.Role}
			ctx := context.WithValue(r.Context(), authCtxKey{}, p)
			ctx = WithLogger(ctx, logger.With("user", p.Login))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin は管理者ロール以外を 403 で弾きます。JWTAuthMiddleware の後に置く。
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "authentication required", "", model.ErrUnauthorized))
			return
		}
		if p.Role != model.RoleAdmin {
			logger.Warn("Admin route rejected", "role", p.Role)
			webutil.HandleError(w, logger, model.NewAppError("FORBIDDEN", "administrator role required", "", model.ErrForbidden))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(authCtxKey{}).(Principal)
	return p, ok
}

// WithPrincipal はテストなどで認証済みコンテキストを作るためのヘルパー
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, authCtxKey{}, p)
}

// GetLoginFromContext は認証済みユーザーのログイン名を取り出します
func GetLoginFromContext(ctx context.Context) (string, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Login == "" {
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "no authenticated user in context", "", model.ErrInternalServer)
	}
	return p.Login, nil
}
