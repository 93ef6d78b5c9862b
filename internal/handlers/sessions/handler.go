package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/services/editbuffer"
	"gitlab.com/judge-session.net/internal/core/services/registry"
	"gitlab.com/judge-session.net/internal/core/services/session"
	"gitlab.com/judge-session.net/internal/domain"
	"gitlab.com/judge-session.net/internal/handlers"
	"gitlab.com/judge-session.net/internal/handlers/response"
	"gitlab.com/judge-session.net/internal/static/errs"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SessionHandler exposes judging sessions over HTTP
type SessionHandler struct {
	registry registry.IRegistry
	logger   primary.Logger
}

func NewSessionHandler(registry registry.IRegistry, logger primary.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		logger:   logger,
	}
}

// RegisterRoutes registers the session routes behind the JWT middleware
func (h *SessionHandler) RegisterRoutes(router *mux.Router, mw *handlers.MiddlewareProvider) {
	r := router.PathPrefix("/api/sessions").Subrouter()
	r.Use(mw.JWTMiddleware)

	r.HandleFunc("", h.CreateSession).Methods(http.MethodPost)
	r.HandleFunc("/{sessionId}", h.GetSession).Methods(http.MethodGet)
	r.HandleFunc("/{sessionId}", h.DeleteSession).Methods(http.MethodDelete)

	r.HandleFunc("/{sessionId}/next", h.Next).Methods(http.MethodPost)
	r.HandleFunc("/{sessionId}/previous", h.Previous).Methods(http.MethodPost)
	r.HandleFunc("/{sessionId}/goto", h.GoTo).Methods(http.MethodPost)
	r.HandleFunc("/{sessionId}/reload", h.Reload).Methods(http.MethodPost)

	r.HandleFunc("/{sessionId}/code", h.EditCode).Methods(http.MethodPut)
	r.HandleFunc("/{sessionId}/run", h.Run).Methods(http.MethodPost)

	r.HandleFunc("/{sessionId}/edit", h.BeginEdit).Methods(http.MethodPost)
	r.HandleFunc("/{sessionId}/edit", h.CancelEdit).Methods(http.MethodDelete)
	r.HandleFunc("/{sessionId}/edit/save", h.SaveEdit).Methods(http.MethodPost)
	r.HandleFunc("/{sessionId}/edit/fields", h.SetField).Methods(http.MethodPatch)
	r.HandleFunc("/{sessionId}/edit/cases", h.AddCase).Methods(http.MethodPost)
	r.HandleFunc("/{sessionId}/edit/cases/{caseIndex}", h.UpdateCase).Methods(http.MethodPatch)
	r.HandleFunc("/{sessionId}/edit/cases/{caseIndex}", h.RemoveCase).Methods(http.MethodDelete)
}

// CreateSession starts a session and visits its first question
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, response.ErrorMessage{Message: "missing identity", StatusCode: http.StatusUnauthorized})
		return
	}

	var req CreateSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	refs := make([]domain.QuestionRef, 0, len(req.Questions))
	for _, q := range req.Questions {
		refs = append(refs, q.toDomain())
	}

	id, nav, err := h.registry.Create(identity, refs)
	if err != nil {
		h.logger.Error("Failed to create session", "error", err)
		h.writeError(w, nil, err)
		return
	}

	if err := nav.Start(r.Context()); err != nil {
		h.logger.Warn("First question failed to load", "sessionId", id, "error", err)
	}
	h.writeSession(w, http.StatusCreated, id, nav, nil, nil)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	nav, id, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeSession(w, http.StatusOK, id, nav, nil, nil)
}

func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())
	id, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid session id", StatusCode: http.StatusBadRequest})
		return
	}
	if err := h.registry.Delete(identity, id); err != nil {
		h.writeError(w, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(ctx context.Context, nav session.INavigator) error {
		return nav.Next(ctx)
	})
}

func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(ctx context.Context, nav session.INavigator) error {
		return nav.Previous(ctx)
	})
}

func (h *SessionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(ctx context.Context, nav session.INavigator) error {
		return nav.Reload(ctx)
	})
}

func (h *SessionHandler) GoTo(w http.ResponseWriter, r *http.Request) {
	var req GoToRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.navigate(w, r, func(ctx context.Context, nav session.INavigator) error {
		return nav.GoToIndex(ctx, *req.Index)
	})
}

func (h *SessionHandler) EditCode(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !h.decode(w, r, &req) {
		return
	}
	nav, id, ok := h.session(w, r)
	if !ok {
		return
	}
	nav.EditCode(req.Code)
	h.writeSession(w, http.StatusOK, id, nav, nil, nil)
}

func (h *SessionHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if !h.decode(w, r, &req) {
		return
	}
	nav, id, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := nav.Run(r.Context(), session.RunOptions{
		Language:           domain.Language(req.Language),
		CustomInputEnabled: req.CustomInputEnabled,
		CustomInput:        req.CustomInput,
	})
	if err != nil {
		h.writeError(w, nav, err)
		return
	}
	h.writeSession(w, http.StatusOK, id, nav, &res, nil)
}

func (h *SessionHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	nav, id, ok := h.session(w, r)
	if !ok {
		return
	}
	draft, err := nav.BeginEdit()
	if err != nil {
		h.writeError(w, nav, err)
		return
	}
	h.writeSession(w, http.StatusOK, id, nav, nil, &draft)
}

func (h *SessionHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	nav, id, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := nav.CancelEdit(); err != nil {
		h.writeError(w, nav, err)
		return
	}
	h.writeSession(w, http.StatusOK, id, nav, nil, nil)
}

func (h *SessionHandler) SaveEdit(w http.ResponseWriter, r *http.Request) {
	nav, id, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := nav.SaveEdit(r.Context()); err != nil {
		h.writeError(w, nav, err)
		return
	}
	h.writeSession(w, http.StatusOK, id, nav, nil, nil)
}

func (h *SessionHandler) SetField(w http.ResponseWriter, r *http.Request) {
	var req FieldRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.editDraft(w, r, func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.SetField(editbuffer.Field(req.Field), req.Value)
	})
}

func (h *SessionHandler) AddCase(w http.ResponseWriter, r *http.Request) {
	h.editDraft(w, r, func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.AddHiddenCase(), nil
	})
}

func (h *SessionHandler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	caseIndex, ok := h.caseIndex(w, r)
	if !ok {
		return
	}
	var req CaseFieldRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.editDraft(w, r, func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.UpdateHiddenCase(caseIndex, editbuffer.CaseField(req.Field), req.Value)
	})
}

func (h *SessionHandler) RemoveCase(w http.ResponseWriter, r *http.Request) {
	caseIndex, ok := h.caseIndex(w, r)
	if !ok {
		return
	}
	h.editDraft(w, r, func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.RemoveHiddenCase(caseIndex), nil
	})
}

func (h *SessionHandler) editDraft(w http.ResponseWriter, r *http.Request, fn func(editbuffer.Draft) (editbuffer.Draft, error)) {
	nav, id, ok := h.session(w, r)
	if !ok {
		return
	}
	draft, err := nav.EditDraft(fn)
	if err != nil {
		h.writeError(w, nav, err)
		return
	}
	h.writeSession(w, http.StatusOK, id, nav, nil, &draft)
}

// navigate runs a move. Load failures are already reported as notices and
// the move itself stands, so they still answer 200.
func (h *SessionHandler) navigate(w http.ResponseWriter, r *http.Request, fn func(context.Context, session.INavigator) error) {
	nav, id, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := fn(r.Context(), nav); err != nil && !isLoadError(err) {
		h.writeError(w, nav, err)
		return
	}
	h.writeSession(w, http.StatusOK, id, nav, nil, nil)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (session.INavigator, uuid.UUID, bool) {
	identity, _ := handlers.IdentityFromContext(r.Context())
	id, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid session id", StatusCode: http.StatusBadRequest})
		return nil, uuid.Nil, false
	}
	nav, err := h.registry.Get(identity, id)
	if err != nil {
		h.writeError(w, nil, err)
		return nil, uuid.Nil, false
	}
	return nav, id, true
}

func (h *SessionHandler) caseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(mux.Vars(r)["caseIndex"])
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid case index", StatusCode: http.StatusBadRequest})
		return 0, false
	}
	return i, true
}

func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return false
	}
	if err := validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		msg := err.Error()
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			msg = fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag())
		}
		response.WriteError(w, response.ErrorMessage{Message: msg, StatusCode: http.StatusBadRequest})
		return false
	}
	return true
}

func (h *SessionHandler) writeSession(w http.ResponseWriter, status int, id uuid.UUID, nav session.INavigator, res *domain.PartitionedResults, draft *domain.Question) {
	notices := nav.DrainNotices()
	if notices == nil {
		notices = []domain.Notice{}
	}
	response.WriteJSON(w, status, SessionResponse{
		SessionID: id,
		State:     nav.State(),
		Notices:   notices,
		Results:   res,
		Draft:     draft,
	})
}

func (h *SessionHandler) writeError(w http.ResponseWriter, nav session.INavigator, err error) {
	msg := response.ErrorMessage{Message: err.Error(), StatusCode: statusFor(err)}
	if nav != nil {
		msg.Notices = nav.DrainNotices()
	}
	if msg.StatusCode >= http.StatusInternalServerError {
		h.logger.Error("Session request failed", "error", err)
	}
	response.WriteError(w, msg)
}

func isLoadError(err error) bool {
	return errors.Is(err, errs.ErrQuestionNotFound) ||
		errors.Is(err, errs.ErrNetwork) ||
		errors.Is(err, errs.ErrMalformedResponse)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.SessionNotFound), errors.Is(err, errs.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.SessionForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidIndex),
		errors.Is(err, errs.ErrUnknownField),
		errors.Is(err, errs.ErrInvalidFieldValue):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrMissingQuestionID):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrRunInProgress),
		errors.Is(err, errs.ErrSaveInProgress),
		errors.Is(err, errs.ErrQuestionNotLoaded),
		errors.Is(err, errs.ErrNotEditing):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNetwork), errors.Is(err, errs.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
