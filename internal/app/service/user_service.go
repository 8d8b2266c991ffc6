package service

import (
	"context"
	"fmt"

	"grindtrack/internal/common"
	"grindtrack/internal/domain/model"
	"grindtrack/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Codeforces *string `json:"codeforces,omitempty"`
	LeetCode   *string `json:"leetcode,omitempty"`
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

// UpdateProfile applies the non-nil fields of req to the authenticated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		if *req.Email == "" {
			return nil, common.Errorf("email cannot be empty: %w", common.ErrBadRequest)
		}
		user.Email = *req.Email
	}
	if req.Codeforces != nil {
		user.CodeforcesHandle = *req.Codeforces
	}
	if req.LeetCode != nil {
		user.LeetCodeHandle = *req.LeetCode
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}
