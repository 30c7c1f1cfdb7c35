package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"aduan/internal/identity"
	"aduan/internal/identity/store/revocation"
	"aduan/internal/identity/store/user"
	"aduan/internal/identity/token"
	"aduan/internal/register"
	"aduan/internal/session"
	"aduan/internal/view"
	audit "aduan/pkg/platform/audit"
	auditmemory "aduan/pkg/platform/audit/store/memory"
)

// The transport suite wires the real core (gate, flow, router) over the
// in-memory identity provider, so requests exercise the same paths the
// server binary does.
type TransportSuite struct {
	suite.Suite
	server     *httptest.Server
	gate       *session.Gate
	auditStore *auditmemory.InMemoryStore
}

func TestTransportSuite(t *testing.T) {
	suite.Run(t, new(TransportSuite))
}

func (s *TransportSuite) SetupTest() {
	tokens := token.NewService("test-signing-key", "aduan", "aduan-portal")
	provider, err := identity.NewLocalProvider(user.New(), tokens, revocation.NewInMemory())
	s.Require().NoError(err)

	s.gate, err = session.New(provider)
	s.Require().NoError(err)
	s.gate.ResolveAnonymous()

	views := view.NewRouter(s.gate)
	flow := register.NewFlow(s.gate, views,
		register.WithScheduler(func(_ time.Duration, fn func()) { fn() }))

	s.auditStore = auditmemory.NewInMemoryStore()
	handler := NewHandler(s.gate, flow, views, nil,
		WithAuditPublisher(audit.NewPublisher(s.auditStore)))
	s.server = httptest.NewServer(NewRouter(handler, nil))
}

func (s *TransportSuite) TearDownTest() {
	s.server.Close()
}

func (s *TransportSuite) postJSON(path string, body any) *http.Response {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader(raw))
	s.Require().NoError(err)
	return resp
}

func (s *TransportSuite) get(path string) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp
}

func (s *TransportSuite) decode(resp *http.Response, v any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func registrationBody() map[string]string {
	return map[string]string{
		"email":            "siti@example.com",
		"password":         "rahasia123",
		"confirm_password": "rahasia123",
		"full_name":        "Siti Rahma",
		"nik":              "3273011501900001",
		"address":          "Jl. Merdeka No. 1, Bandung",
		"phone":            "081234567890",
	}
}

func (s *TransportSuite) TestRegister() {
	s.Run("valid form creates a session", func() {
		resp := s.postJSON("/v1/register", registrationBody())
		s.Require().Equal(http.StatusCreated, resp.StatusCode)

		var creds credentialsResponse
		s.decode(resp, &creds)
		s.NotEmpty(creds.Token)
		s.Equal("Siti Rahma", creds.Profile.FullName)
		s.Equal("citizen", creds.Profile.Role)
	})

	s.Run("session endpoint reflects the new session", func() {
		resp := s.get("/v1/session")
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var sess sessionResponse
		s.decode(resp, &sess)
		s.True(sess.Authenticated)
		s.False(sess.Loading)
		s.Require().NotNil(sess.Profile)
		s.Equal("Siti Rahma", sess.Profile.FullName)
	})
}

func (s *TransportSuite) TestRegister_ValidationError() {
	body := registrationBody()
	body["nik"] = "1234567890123"

	resp := s.postJSON("/v1/register", body)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)

	var envelope errorEnvelope
	s.decode(resp, &envelope)
	s.Equal("NIK must be 16 digits", envelope.Message)
}

func (s *TransportSuite) TestRegister_DuplicateEmail() {
	resp := s.postJSON("/v1/register", registrationBody())
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Free the single process session so a second attempt reaches the
	// provider instead of the gate's live-session guard.
	resp = s.postJSON("/v1/logout", nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	body := registrationBody()
	body["nik"] = "3273011501900002"
	resp = s.postJSON("/v1/register", body)
	s.Require().Equal(http.StatusConflict, resp.StatusCode)

	var envelope errorEnvelope
	s.decode(resp, &envelope)
	s.Contains(envelope.Message, "sudah terdaftar")
}

func (s *TransportSuite) TestRegister_MalformedBody() {
	resp, err := http.Post(s.server.URL+"/v1/register", "application/json", bytes.NewReader([]byte("{not json")))
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *TransportSuite) TestLoginLogout() {
	resp := s.postJSON("/v1/register", registrationBody())
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.postJSON("/v1/logout", nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	s.Run("wrong password is unauthorized", func() {
		resp := s.postJSON("/v1/login", map[string]string{
			"email":    "siti@example.com",
			"password": "wrong-password",
		})
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	s.Run("correct credentials restore the session", func() {
		resp := s.postJSON("/v1/login", map[string]string{
			"email":    "siti@example.com",
			"password": "rahasia123",
		})
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var creds credentialsResponse
		s.decode(resp, &creds)
		s.NotEmpty(creds.Token)
	})

	s.Run("logout while anonymous is a no-op", func() {
		resp := s.postJSON("/v1/logout", nil)
		s.Equal(http.StatusNoContent, resp.StatusCode)
		resp.Body.Close()
		resp = s.postJSON("/v1/logout", nil)
		s.Equal(http.StatusNoContent, resp.StatusCode)
		resp.Body.Close()
	})
}

func (s *TransportSuite) TestNavigate() {
	s.Run("anonymous request for a protected view lands on landing", func() {
		resp := s.postJSON("/v1/navigate", map[string]any{"view": "dashboard"})
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var nav navigateResponse
		s.decode(resp, &nav)
		s.Equal("dashboard", nav.Requested)
		s.Equal("landing", nav.Resolved)
	})

	s.Run("unknown view identifiers resolve to the fallback", func() {
		resp := s.postJSON("/v1/navigate", map[string]any{"view": "nonsense"})
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var nav navigateResponse
		s.decode(resp, &nav)
		s.Equal("landing", nav.Resolved)
	})

	s.Run("citizen reaches the dashboard after registering", func() {
		resp := s.postJSON("/v1/register", registrationBody())
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
		resp.Body.Close()

		resp = s.postJSON("/v1/navigate", map[string]any{"view": "dashboard"})
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var nav navigateResponse
		s.decode(resp, &nav)
		s.Equal("dashboard", nav.Resolved)
	})

	s.Run("detail view with payload is reachable", func() {
		resp := s.postJSON("/v1/navigate", map[string]any{
			"view":    "complaint-detail",
			"payload": map[string]string{"id": "42", "title": "jalan berlubang"},
		})
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var nav navigateResponse
		s.decode(resp, &nav)
		s.Equal("complaint-detail", nav.Resolved)
	})

	s.Run("detail view without payload degrades to dashboard", func() {
		resp := s.postJSON("/v1/navigate", map[string]any{"view": "complaint-detail"})
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var nav navigateResponse
		s.decode(resp, &nav)
		s.Equal("dashboard", nav.Resolved)
	})
}

func (s *TransportSuite) TestNavigate_FallbackIsAudited() {
	resp := s.postJSON("/v1/navigate", map[string]any{"view": "statistics"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	events := s.auditStore.All()
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventNavigationFallback), events[0].Action)
	s.Equal(audit.CategoryOperations, events[0].Category)
	s.Equal("statistics", events[0].Reason)
}

func (s *TransportSuite) TestHealthz() {
	resp := s.get("/healthz")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *TransportSuite) TestRequestIDPropagation() {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/v1/session", nil)
	s.Require().NoError(err)
	req.Header.Set("X-Request-Id", "req-123")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal("req-123", resp.Header.Get("X-Request-Id"))
}

type checkerFunc func() error

func (f checkerFunc) Health(context.Context) error { return f() }

func (s *TransportSuite) TestHealthz_FailingDependency() {
	handler := NewHandler(s.gate, nil, nil, nil)
	server := httptest.NewServer(NewRouter(handler, map[string]HealthChecker{
		"postgres": checkerFunc(func() error { return fmt.Errorf("connection refused") }),
	}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)
}
