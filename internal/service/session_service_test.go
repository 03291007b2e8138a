package service

import (
	"testing"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_StartAndEnd(t *testing.T) {
	s := NewSessionService(logger.NewNop())

	_, active := s.Current()
	assert.False(t, active)

	require.NoError(t, s.Start(entity.RoleProducer))
	role, active := s.Current()
	assert.True(t, active)
	assert.Equal(t, entity.RoleProducer, role)
	assert.True(t, s.HasRole(entity.RoleProducer))
	assert.False(t, s.HasRole(entity.RoleBuyer))

	s.End()
	_, active = s.Current()
	assert.False(t, active)
}

func TestSessionService_NoDirectRoleSwitch(t *testing.T) {
	s := NewSessionService(logger.NewNop())

	require.NoError(t, s.Start(entity.RoleProducer))
	assert.ErrorIs(t, s.Start(entity.RoleBuyer), ErrSessionActive)
	assert.ErrorIs(t, s.Start(entity.RoleProducer), ErrSessionActive)

	// switching requires passing through the logged-out state
	s.End()
	require.NoError(t, s.Start(entity.RoleBuyer))
	assert.True(t, s.HasRole(entity.RoleBuyer))
}

func TestSessionService_StartUnknownRole(t *testing.T) {
	s := NewSessionService(logger.NewNop())
	assert.Error(t, s.Start(entity.Role("ADMIN")))

	_, active := s.Current()
	assert.False(t, active)
}

func TestSessionService_StartedAt(t *testing.T) {
	s := NewSessionService(logger.NewNop())

	_, ok := s.StartedAt()
	assert.False(t, ok)

	require.NoError(t, s.Start(entity.RoleBuyer))
	startedAt, ok := s.StartedAt()
	assert.True(t, ok)
	assert.False(t, startedAt.IsZero())

	s.End()
	_, ok = s.StartedAt()
	assert.False(t, ok)
}

func TestSessionService_EndIsIdempotent(t *testing.T) {
	s := NewSessionService(logger.NewNop())
	s.End()
	s.End()
	_, active := s.Current()
	assert.False(t, active)
}
