// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go_vocab_cards/internal/config"
	"go_vocab_cards/internal/handlers"
	"go_vocab_cards/internal/model"
	"go_vocab_cards/internal/service/mocks"
)

var testJWTConfig = config.JWTConfig{
	SecretKey:      "0123456789abcdef0123456789abcdef",
	Issuer:         config.DefaultJWTIssuer,
	Audience:       config.DefaultJWTAudience,
	AccessTokenTTL: 10 * time.Minute,
}

// testEnv はモック付きのテスト用サーバー
type testEnv struct {
	server      *httptest.Server
	accounts    *mocks.AccountService
	assignments *mocks.AssignmentService
	terms       *mocks.TermService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		accounts:    new(mocks.AccountService),
		assignments: new(mocks.AssignmentService),
		terms:       new(mocks.TermService),
	}

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, handlers.Handlers{
		Account:    handlers.NewAccountHandler(env.accounts),
		Assignment: handlers.NewAssignmentHandler(env.assignments),
		Term:       handlers.NewTermHandler(env.terms),
	}, testJWTConfig)

	env.server = httptest.NewServer(r)
	t.Cleanup(func() {
		env.server.Close()
		env.accounts.AssertExpectations(t)
		env.assignments.AssertExpectations(t)
		env.terms.AssertExpectations(t)
	})
	return env
}

// issueToken はテスト用の署名済みアクセストークンを作ります
func issueToken(t *testing.T, login, role string) string {
	t.Helper()
	now := time.Now()
	claims := model.JWTCustomClaims{
		Name: login,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    testJWTConfig.Issuer,
			Subject:   login,
			Audience:  jwt.ClaimStrings{testJWTConfig.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(testJWTConfig.AccessTokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTConfig.SecretKey))
	require.NoError(t, err)
	return signed
}

func bearer(t *testing.T, login, role string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + issueToken(t, login, role)}
}

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// sendRequest はHTTPリクエストを送信し、ステータスコードを検証してボディを返します。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectedCode int) []byte {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")
	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	assert.Equal(t, expectedCode, resp.StatusCode, "Status code mismatch: %s", string(respBodyBytes))

	return respBodyBytes
}

// verifyErrorCode はエラーレスポンスの code を検証します。
func verifyErrorCode(t *testing.T, bodyBytes []byte, expectedCode string) {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(bodyBytes, &errResp), "raw body: %s", string(bodyBytes))
	assert.Equal(t, expectedCode, errResp.Error.Code)
}

func decodeBody[T any](t *testing.T, bodyBytes []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(bodyBytes, &v), "raw body: %s", string(bodyBytes))
	return v
}
