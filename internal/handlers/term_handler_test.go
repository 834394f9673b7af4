package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"go_vocab_cards/internal/model"
)

func TestTermHandler_ListAndGet(t *testing.T) {
	t.Run("正常系: 用語一覧", func(t *testing.T) {
		env := newTestEnv(t)
		env.terms.On("ListTerms", mock.Anything).
			Return([]*model.Term{{ID: 1, En: "drill bit", Ru: "долото", Domain: model.DomainDrilling}}, nil).Once()

		body := sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/terms/show-all-terms",
			Headers: bearer(t, "alice", model.RoleUser),
		}, http.StatusOK)
		terms := decodeBody[[]model.Term](t, body)
		assert.Len(t, terms, 1)
		assert.Equal(t, "drill bit", terms[0].En)
	})

	t.Run("異常系: 存在しない用語は404", func(t *testing.T) {
		env := newTestEnv(t)
		env.terms.On("GetTerm", mock.Anything, uint(99)).
			Return(nil, model.NewAppError("TERM_NOT_FOUND", "term not found", "id", model.ErrNotFound)).Once()

		body := sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/terms/show-term/99",
			Headers: bearer(t, "alice", model.RoleUser),
		}, http.StatusNotFound)
		verifyErrorCode(t, body, "TERM_NOT_FOUND")
	})

	t.Run("異常系: IDが0なら400", func(t *testing.T) {
		env := newTestEnv(t)
		sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/terms/show-term/0",
			Headers: bearer(t, "alice", model.RoleUser),
		}, http.StatusBadRequest)
	})
}

func TestTermHandler_AdminWrites(t *testing.T) {
	t.Run("正常系: 管理者は用語を作成できる", func(t *testing.T) {
		env := newTestEnv(t)
		env.terms.On("CreateTerm", mock.Anything, &model.TermRequest{En: "casing", Ru: "обсадная колонна", Domain: "Drilling"}).
			Return(&model.Term{ID: 2, En: "casing", Ru: "обсадная колонна", Domain: model.DomainDrilling}, nil).Once()

		body := sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/api/terms/create",
			Body:    map[string]string{"en": "casing", "ru": "обсадная колонна", "domain": "Drilling"},
			Headers: bearer(t, model.AdminLogin, model.RoleAdmin),
		}, http.StatusCreated)
		assert.Equal(t, uint(2), decodeBody[model.Term](t, body).ID)
	})

	t.Run("異常系: 一般ユーザーは作成できない", func(t *testing.T) {
		env := newTestEnv(t)
		sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/api/terms/create",
			Body:    map[string]string{"en": "casing", "ru": "обсадная колонна"},
			Headers: bearer(t, "alice", model.RoleUser),
		}, http.StatusForbidden)
	})

	t.Run("異常系: 重複は409", func(t *testing.T) {
		env := newTestEnv(t)
		env.terms.On("CreateTerm", mock.Anything, mock.Anything).
			Return(nil, model.NewAppError("TERM_EXISTS", "term already exists", "", model.ErrConflict)).Once()

		body := sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/api/terms/create",
			Body:    map[string]string{"en": "casing", "ru": "обсадная колонна"},
			Headers: bearer(t, model.AdminLogin, model.RoleAdmin),
		}, http.StatusConflict)
		verifyErrorCode(t, body, "TERM_EXISTS")
	})

	t.Run("正常系: 更新は204", func(t *testing.T) {
		env := newTestEnv(t)
		env.terms.On("UpdateTerm", mock.Anything, uint(2), &model.TermRequest{Ru: "колонна"}).Return(nil).Once()

		sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodPut,
			Path:    "/api/terms/change-term/2",
			Body:    map[string]string{"ru": "колонна"},
			Headers: bearer(t, model.AdminLogin, model.RoleAdmin),
		}, http.StatusNoContent)
	})

	t.Run("正常系: 削除は204", func(t *testing.T) {
		env := newTestEnv(t)
		env.terms.On("DeleteTerm", mock.Anything, uint(2)).Return(nil).Once()

		sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodDelete,
			Path:    "/api/terms/2",
			Headers: bearer(t, model.AdminLogin, model.RoleAdmin),
		}, http.StatusNoContent)
	})
}

func TestTermHandler_Translate(t *testing.T) {
	t.Run("正常系: 翻訳して課題を返す", func(t *testing.T) {
		env := newTestEnv(t)
		env.terms.On("Translate", mock.Anything, "alice", mock.MatchedBy(func(req *model.TranslateRequest) bool {
			return req.Text == "drill bit" && req.Direction == nil
		})).Return(&model.TranslateResponse{TermID: 1, AssignmentID: 1, Direction: model.EnToRu, Question: "drill bit", Translation: "долото"}, nil).Once()

		body := sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/api/terms/translate",
			Body:    map[string]string{"text": "drill bit"},
			Headers: bearer(t, "alice", model.RoleUser),
		}, http.StatusOK)
		assert.Equal(t, "долото", decodeBody[model.TranslateResponse](t, body).Translation)
	})

	t.Run("異常系: text欠落は400", func(t *testing.T) {
		env := newTestEnv(t)
		body := sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodPost,
			Path:    "/api/terms/translate",
			Body:    map[string]string{},
			Headers: bearer(t, "alice", model.RoleUser),
		}, http.StatusBadRequest)
		verifyErrorCode(t, body, "VALIDATION_ERROR")
	})

	t.Run("正常系: 閲覧履歴", func(t *testing.T) {
		env := newTestEnv(t)
		env.terms.On("ListUserTerms", mock.Anything, "alice").
			Return([]model.UserTermResponse{{TermID: 1, En: "drill bit", Ru: "долото"}}, nil).Once()

		body := sendRequest(t, env.server, httpRequestDetails{
			Method:  http.MethodGet,
			Path:    "/api/terms/user-terms",
			Headers: bearer(t, "alice", model.RoleUser),
		}, http.StatusOK)
		assert.Len(t, decodeBody[[]model.UserTermResponse](t, body), 1)
	})
}
