package services

import (
	"context"
	"testing"

	"cfb-pickem-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	s := NewUserService(f.users)

	alice := f.addUser(t, "alice", "Alice")
	noName := f.addUser(t, "bob", "")

	profile, err := s.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, &UserProfile{ID: alice.ID, DisplayName: "Alice"}, profile)

	profile, err = s.GetProfile(ctx, noName.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", profile.DisplayName)

	_, err = s.GetProfile(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
