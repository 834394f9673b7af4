package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const maskedValue = "[MASKED]"

// sensitiveJSONFields はボディ中でマスキングするキー (小文字)
var sensitiveJSONFields = map[string]bool{
	"password":      true,
	"access_token":  true,
	"accesstoken":   true,
	"refresh_token": true,
}

// RequestDetailLoggingMiddleware は失敗したリクエストのヘッダーとBodyをログに出力するミドルウェア
func RequestDetailLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := chimiddleware.GetReqID(r.Context())

			var requestBodyBytes []byte
			if r.Body != nil && r.ContentLength != 0 {
				b, err := io.ReadAll(r.Body)
				if err != nil {
					logger.ErrorContext(r.Context(), "Failed to read request body in middleware", slog.Any("error", err), slog.String("request_id", requestID))
				} else {
					requestBodyBytes = b
					r.Body = io.NopCloser(bytes.NewBuffer(b))
				}
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status < 400 {
				return
			}

			headerAttrs := make([]any, 0)
			for k, v := range formatHeaders(r.Header) {
				headerAttrs = append(headerAttrs, slog.String(strings.ReplaceAll(strings.ToLower(k), "-", "_"), v))
			}

			logAttrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("type", "request_detail_log"),
				slog.String("method", r.Method),
				slog.String("uri", r.RequestURI),
				slog.Int("status_code", status),
				slog.Group("request_headers", headerAttrs...),
			}
			if len(requestBodyBytes) > 0 {
				if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
					logAttrs = append(logAttrs, slog.Any("request_body", maskJSONBody(requestBodyBytes)))
				} else {
					logAttrs = append(logAttrs, slog.String("request_body_info",
						fmt.Sprintf("[Non-JSON body: %d bytes, Content-Type: %s]", len(requestBodyBytes), r.Header.Get("Content-Type"))))
				}
			}

			logLevel := slog.LevelWarn
			if status >= 500 {
				logLevel = slog.LevelError
			}
			logger.LogAttrs(r.Context(), logLevel, "HTTP request detail", logAttrs...)
		})
	}
}

// maskJSONBody はJSONボディをパースして機密フィールドを伏せた値を返します。
// JSONでなければサイズだけを返す。
func maskJSONBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Sprintf("[Unparseable body: %d bytes]", len(body))
	}
	return maskValue(data)
}

func maskValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			if sensitiveJSONFields[strings.ToLower(k)] {
				t[k] = maskedValue
				continue
			}
			t[k] = maskValue(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = maskValue(inner)
		}
		return t
	default:
		return v
	}
}
