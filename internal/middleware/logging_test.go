package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskJSONBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected any
	}{
		{
			name:     "正常系: password を伏せる",
			body:     `{"login":"alice","password":"pw12345"}`,
			expected: map[string]any{"login": "alice", "password": maskedValue},
		},
		{
			name:     "正常系: キーの大文字小文字を問わない",
			body:     `{"Login":"alice","Password":"pw"}`,
			expected: map[string]any{"Login": "alice", "Password": maskedValue},
		},
		{
			name: "正常系: ネストと配列",
			body: `{"items":[{"access_token":"t"}],"user":{"refresh_token":"r","points":10}}`,
			expected: map[string]any{
				"items": []any{map[string]any{"access_token": maskedValue}},
				"user":  map[string]any{"refresh_token": maskedValue, "points": float64(10)},
			},
		},
		{
			name:     "異常系: JSONでなければサイズのみ",
			body:     `not json`,
			expected: "[Unparseable body: 8 bytes]",
		},
		{
			name:     "正常系: 空のボディ",
			body:     ``,
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, maskJSONBody([]byte(tc.body)))
		})
	}
}

func TestFormatHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("Content-Type", "application/json")
	h.Add("Accept", "a")
	h.Add("Accept", "b")

	got := formatHeaders(h)
	assert.Equal(t, "[SENSITIVE]", got["Authorization"])
	assert.Equal(t, "application/json", got["Content-Type"])
	assert.Equal(t, "a, b", got["Accept"])
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var sawLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = GetLogger(r.Context()) != slog.Default()
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"login":"alice","password":"pw"}`, string(body))
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"LOGIN_TAKEN","message":"taken"}}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/account/register", strings.NewReader(`{"login":"alice","password":"pw"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()

	LoggingMiddleware(logger)(next).ServeHTTP(rec, req)

	assert.True(t, sawLogger)
	assert.Equal(t, http.StatusConflict, rec.Code)

	out := buf.String()
	assert.NotContains(t, out, `"pw"`)
	assert.NotContains(t, out, "Bearer secret")

	var completed map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["msg"] == "Request completed" {
			completed = entry
		}
	}
	require.NotNil(t, completed)
	assert.Equal(t, "WARN", completed["level"])
	assert.Equal(t, float64(http.StatusConflict), completed["status"])
}

func TestRequestDetailLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		expectedLog bool
	}{
		{name: "正常系: 成功時は出力しない", status: http.StatusOK, expectedLog: false},
		{name: "正常系: 4xx は出力する", status: http.StatusBadRequest, expectedLog: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/account", strings.NewReader(`{"login":"a","password":"secret-pw"}`))
			req.Header.Set("Content-Type", "application/json")
			RequestDetailLoggingMiddleware(logger)(next).ServeHTTP(httptest.NewRecorder(), req)

			if !tc.expectedLog {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), "HTTP request detail")
			assert.Contains(t, buf.String(), maskedValue)
			assert.NotContains(t, buf.String(), "secret-pw")
		})
	}
}
