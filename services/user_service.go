package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProfile is what other players may see of a user
type UserProfile struct {
	ID          primitive.ObjectID `json:"id"`
	DisplayName string             `json:"displayName"`
}

// UserService reads the user registry
type UserService struct {
	users UserRepository
}

// NewUserService creates a new user service
func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the public profile of a user
func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*UserProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &UserProfile{ID: user.ID, DisplayName: user.Name()}, nil
}
