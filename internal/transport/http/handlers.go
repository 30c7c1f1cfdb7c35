package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"aduan/internal/register"
	"aduan/internal/session"
	"aduan/internal/view"
	dErrors "aduan/pkg/domain-errors"
	audit "aduan/pkg/platform/audit"
	"aduan/pkg/requestcontext"
)

// SessionGate is the slice of the session gate the transport drives.
type SessionGate interface {
	CurrentSession() session.Session
	CurrentProfile() *session.Profile
	Token() string
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context)
}

// RegistrationFlow validates and submits a registration form.
type RegistrationFlow interface {
	Submit(ctx context.Context, form register.Form) error
	Reset()
}

// ViewRouter resolves navigation requests against the live session.
type ViewRouter interface {
	Navigate(v view.View, payload any)
	Current() view.View
	Payload() any
	Reset()
}

// AuditPublisher receives best-effort operational audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Handler is the thin HTTP layer over the portal core. It delegates to the
// session gate, the registration flow, and the view router without embedding
// business logic.
type Handler struct {
	logger *slog.Logger
	gate   SessionGate
	flow   RegistrationFlow
	views  ViewRouter
	audit  AuditPublisher
}

type HandlerOption func(*Handler)

func WithAuditPublisher(publisher AuditPublisher) HandlerOption {
	return func(h *Handler) {
		h.audit = publisher
	}
}

func NewHandler(gate SessionGate, flow RegistrationFlow, views ViewRouter, logger *slog.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{
		logger: logger,
		gate:   gate,
		flow:   flow,
		views:  views,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
	NIK             string `json:"nik"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	Profile       *profileResponse `json:"profile,omitempty"`
}

type credentialsResponse struct {
	Token   string          `json:"token"`
	Profile profileResponse `json:"profile"`
}

type navigateRequest struct {
	View    string          `json:"view"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type navigateResponse struct {
	Requested string `json:"requested"`
	Resolved  string `json:"resolved"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	err := h.flow.Submit(ctx, register.Form{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
		NIK:             req.NIK,
		Address:         req.Address,
		Phone:           req.Phone,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.credentials())
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.gate.SignIn(ctx, req.Email, req.Password); err != nil {
		h.logger.WarnContext(ctx, "sign-in rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.credentials())
}

// handleLogout always answers 204. Sign-out is best-effort and the session is
// force-reset regardless of the revoke outcome, so there is no failure to
// report.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.gate.SignOut(r.Context())
	h.views.Reset()
	h.flow.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := h.gate.CurrentSession()
	resp := sessionResponse{
		Authenticated: sess.Authenticated,
		Loading:       sess.Loading,
	}
	if profile := h.gate.CurrentProfile(); profile != nil {
		resp.Profile = &profileResponse{
			FullName: profile.FullName,
			Role:     string(profile.Role),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	// Unknown identifiers stay routable: the router resolves them to the
	// tier fallback instead of erroring.
	v, _ := view.Parse(req.View)
	var payload any
	if len(req.Payload) > 0 {
		payload = req.Payload
	}
	h.views.Navigate(v, payload)
	resolved := h.views.Current()

	if h.audit != nil && resolved != v {
		event := audit.Event{
			Category:  audit.CategoryOperations,
			Action:    string(audit.EventNavigationFallback),
			Reason:    req.View,
			RequestID: requestcontext.RequestID(r.Context()),
		}
		if err := h.audit.Emit(r.Context(), event); err != nil {
			h.logger.Debug("audit emit failed", "action", event.Action, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, navigateResponse{
		Requested: req.View,
		Resolved:  string(resolved),
	})
}

func (h *Handler) credentials() credentialsResponse {
	resp := credentialsResponse{Token: h.gate.Token()}
	if profile := h.gate.CurrentProfile(); profile != nil {
		resp.Profile = profileResponse{
			FullName: profile.FullName,
			Role:     string(profile.Role),
		}
	}
	return resp
}
