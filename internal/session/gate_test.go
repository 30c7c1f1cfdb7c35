package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"aduan/internal/identity"
	"aduan/internal/identity/mocks"
	id "aduan/pkg/domain"
	dErrors "aduan/pkg/domain-errors"
	audit "aduan/pkg/platform/audit"
	auditmemory "aduan/pkg/platform/audit/store/memory"
)

type GateSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	provider   *mocks.MockProvider
	auditStore *auditmemory.InMemoryStore
	publisher  *audit.Publisher
	gate       *Gate
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.provider = mocks.NewMockProvider(s.ctrl)
	s.auditStore = auditmemory.NewInMemoryStore()
	s.publisher = audit.NewPublisher(s.auditStore)

	var err error
	s.gate, err = New(s.provider, WithAuditPublisher(s.publisher))
	s.Require().NoError(err)
}

func (s *GateSuite) TearDownTest() {
	s.publisher.Close()
}

func citizenIdentity() *identity.Identity {
	return &identity.Identity{
		UserID:    id.UserID(uuid.New()),
		SessionID: id.SessionID(uuid.New()),
		Token:     "signed.jwt.token",
		Email:     "siti@example.com",
		FullName:  "Siti Rahma",
		Role:      id.RoleCitizen,
	}
}

func (s *GateSuite) TestNew_RequiresProvider() {
	_, err := New(nil)
	s.Error(err)
}

func (s *GateSuite) TestLifecycle_LoadingResolvesOnce() {
	s.Run("starts loading with no profile", func() {
		s.True(s.gate.CurrentSession().Loading)
		s.False(s.gate.CurrentSession().Authenticated)
		s.Nil(s.gate.CurrentProfile())
	})

	s.Run("sign-up refused while loading", func() {
		err := s.gate.SignUp(context.Background(), identity.Registration{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("resolve transitions to anonymous exactly once", func() {
		s.gate.ResolveAnonymous()
		s.False(s.gate.CurrentSession().Loading)
		s.False(s.gate.CurrentSession().Authenticated)

		// Second resolution is a no-op.
		s.gate.ResolveAnonymous()
		s.False(s.gate.CurrentSession().Loading)
	})
}

func (s *GateSuite) TestSignUp() {
	ctx := context.Background()
	s.gate.ResolveAnonymous()

	s.Run("success establishes an authenticated citizen session", func() {
		ident := citizenIdentity()
		s.provider.EXPECT().SignUp(gomock.Any(), gomock.Any()).Return(ident, nil)

		err := s.gate.SignUp(ctx, identity.Registration{Email: ident.Email})
		s.Require().NoError(err)

		s.True(s.gate.CurrentSession().Authenticated)
		profile := s.gate.CurrentProfile()
		s.Require().NotNil(profile)
		s.Equal("Siti Rahma", profile.FullName)
		s.Equal(id.RoleCitizen, profile.Role)
		s.Equal("signed.jwt.token", s.gate.Token())

		events, err := s.auditStore.ListByUser(ctx, ident.UserID)
		s.Require().NoError(err)
		s.Len(events, 2) // user_registered + session_created
	})

	s.Run("second sign-up refused while a session is live", func() {
		err := s.gate.SignUp(ctx, identity.Registration{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *GateSuite) TestSignUp_FailureLeavesSessionUntouched() {
	ctx := context.Background()
	s.gate.ResolveAnonymous()

	s.provider.EXPECT().SignUp(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "email already registered"))

	err := s.gate.SignUp(ctx, identity.Registration{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.False(s.gate.CurrentSession().Authenticated)
	s.Nil(s.gate.CurrentProfile())
}

func (s *GateSuite) TestSignIn() {
	ctx := context.Background()
	s.gate.ResolveAnonymous()

	ident := citizenIdentity()
	ident.Role = id.RoleAdmin
	s.provider.EXPECT().SignIn(gomock.Any(), "admin@example.com", "rahasia123").Return(ident, nil)

	s.Require().NoError(s.gate.SignIn(ctx, "admin@example.com", "rahasia123"))
	profile := s.gate.CurrentProfile()
	s.Require().NotNil(profile)
	s.True(profile.Role.IsAdmin())
}

func (s *GateSuite) TestSignOut() {
	ctx := context.Background()
	s.gate.ResolveAnonymous()

	s.Run("no-op while anonymous", func() {
		// No provider expectation: SignOut must not reach the provider.
		s.gate.SignOut(ctx)
		s.False(s.gate.CurrentSession().Authenticated)
	})

	s.Run("resets to anonymous on success", func() {
		ident := citizenIdentity()
		s.provider.EXPECT().SignUp(gomock.Any(), gomock.Any()).Return(ident, nil)
		s.Require().NoError(s.gate.SignUp(ctx, identity.Registration{}))

		s.provider.EXPECT().SignOut(gomock.Any(), ident.SessionID).Return(nil)
		s.gate.SignOut(ctx)

		s.False(s.gate.CurrentSession().Authenticated)
		s.Nil(s.gate.CurrentProfile())
		s.Empty(s.gate.Token())
	})

	s.Run("resets to anonymous even when the revoke fails", func() {
		ident := citizenIdentity()
		s.provider.EXPECT().SignUp(gomock.Any(), gomock.Any()).Return(ident, nil)
		s.Require().NoError(s.gate.SignUp(ctx, identity.Registration{}))

		s.provider.EXPECT().SignOut(gomock.Any(), ident.SessionID).
			Return(errors.New("revoke endpoint unreachable"))
		s.gate.SignOut(ctx)

		s.False(s.gate.CurrentSession().Authenticated)
		s.Nil(s.gate.CurrentProfile())
	})
}

func (s *GateSuite) TestSubscribe() {
	ctx := context.Background()

	ch, cancel := s.gate.Subscribe()
	defer cancel()

	s.Run("initial snapshot is the loading state", func() {
		snap := <-ch
		s.True(snap.Session.Loading)
		s.Nil(snap.Profile)
	})

	s.Run("transitions are observed", func() {
		s.gate.ResolveAnonymous()
		snap := <-ch
		s.False(snap.Session.Loading)
		s.False(snap.Session.Authenticated)

		ident := citizenIdentity()
		s.provider.EXPECT().SignUp(gomock.Any(), gomock.Any()).Return(ident, nil)
		s.Require().NoError(s.gate.SignUp(ctx, identity.Registration{}))

		snap = <-ch
		s.True(snap.Session.Authenticated)
		s.Require().NotNil(snap.Profile)
		s.Equal("Siti Rahma", snap.Profile.FullName)
	})

	s.Run("slow subscriber sees the latest state, not a backlog", func() {
		s.provider.EXPECT().SignOut(gomock.Any(), gomock.Any()).Return(nil)
		s.gate.SignOut(ctx)

		snap := <-ch
		s.False(snap.Session.Authenticated)
	})
}

func (s *GateSuite) TestProfileCopyIsIsolated() {
	s.gate.ResolveAnonymous()

	ident := citizenIdentity()
	s.provider.EXPECT().SignUp(gomock.Any(), gomock.Any()).Return(ident, nil)
	s.Require().NoError(s.gate.SignUp(context.Background(), identity.Registration{}))

	profile := s.gate.CurrentProfile()
	profile.FullName = "mutated"
	s.Equal("Siti Rahma", s.gate.CurrentProfile().FullName)
}
