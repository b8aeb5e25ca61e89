package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"nyumbani-data/internal/repository"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError 把存储层的哨兵错误翻译成 HTTP 状态码。
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail(err.Error()))
	case errors.Is(err, repository.ErrDuplicateKey):
		writeJSON(w, http.StatusConflict, Fail(err.Error()))
	case errors.Is(err, repository.ErrInvalidReference):
		writeJSON(w, http.StatusUnprocessableEntity, Fail(err.Error()))
	case errors.Is(err, repository.ErrInvariantViolation):
		writeJSON(w, http.StatusConflict, Fail(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
	}
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}
