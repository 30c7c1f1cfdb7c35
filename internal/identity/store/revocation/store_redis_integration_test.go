//go:build integration

package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"aduan/internal/identity/store/revocation"
	id "aduan/pkg/domain"
	"aduan/pkg/testutil/containers"
)

type RedisListSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	list  *revocation.RedisList
}

func TestRedisListSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisListSuite))
}

func (s *RedisListSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.list = revocation.NewRedis(s.redis.Client)
}

func (s *RedisListSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisListSuite) TestRevokeAndCheck() {
	ctx := context.Background()
	sessionID := id.SessionID(uuid.New())

	revoked, err := s.list.IsRevoked(ctx, sessionID)
	s.Require().NoError(err)
	s.False(revoked)

	s.Require().NoError(s.list.Revoke(ctx, sessionID, time.Minute))

	revoked, err = s.list.IsRevoked(ctx, sessionID)
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *RedisListSuite) TestRevocationExpires() {
	ctx := context.Background()
	sessionID := id.SessionID(uuid.New())

	s.Require().NoError(s.list.Revoke(ctx, sessionID, 200*time.Millisecond))

	s.Require().Eventually(func() bool {
		revoked, err := s.list.IsRevoked(ctx, sessionID)
		return err == nil && !revoked
	}, 5*time.Second, 50*time.Millisecond)
}

func (s *RedisListSuite) TestNilSessionIsNeverRevoked() {
	ctx := context.Background()

	s.Require().NoError(s.list.Revoke(ctx, id.SessionID{}, time.Minute))

	revoked, err := s.list.IsRevoked(ctx, id.SessionID{})
	s.Require().NoError(err)
	s.False(revoked)
}
