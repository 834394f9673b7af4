package webutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go_vocab_cards/internal/model"

	"github.com/go-chi/chi/v5"
)

// DecodeJSONBody はリクエストボディをデコードします。
// フィールド名は大文字小文字を区別せずに対応付けられる (encoding/json の仕様)。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.NewAppError("INVALID_BODY", "request body is required", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewAppError("INVALID_BODY", "request body is required", "", model.ErrInvalidInput)
		}
		return model.NewAppError("INVALID_BODY", "malformed JSON body: "+err.Error(), "", model.ErrInvalidInput)
	}
	return nil
}

// DecodeOptionalJSONBody は空のボディを許容します。空なら dst はそのまま。
func DecodeOptionalJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return model.NewAppError("INVALID_BODY", "malformed JSON body: "+err.Error(), "", model.ErrInvalidInput)
	}
	return nil
}

// PathID はパスパラメータを正の整数として取り出します
func PathID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, model.NewAppError("INVALID_ID", "id must be a positive integer", name, model.ErrInvalidInput)
	}
	return uint(id), nil
}

// OptionalBoolQuery はクエリパラメータを bool として取り出します。無ければ nil。
func OptionalBoolQuery(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, model.NewAppError("INVALID_QUERY", name+" must be true or false", name, model.ErrInvalidInput)
	}
	return &v, nil
}
