package response

import (
	"encoding/json"
	"net/http"

	"gitlab.com/judge-session.net/internal/domain"
)

type ErrorMessage struct {
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code"`
	Notices    []domain.Notice `json:"notices,omitempty"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}
