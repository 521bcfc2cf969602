package usecase

import (
	"context"

	"github.com/teerapatl/aqualog-api/internal/model"
	"github.com/teerapatl/aqualog-api/internal/repository"
)

// UserUsecase defines the interface for profile-related use cases.
type UserUsecase interface {
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, error)
}

// UpdateProfileParams defines the optional profile fields a user may change.
type UpdateProfileParams struct {
	Name   *string
	Avatar *string
}

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) UpdateProfile(
	ctx context.Context,
	userID string,
	params UpdateProfileParams,
) (*model.User, error) {
	return u.userRepo.UpdateProfile(ctx, userID, repository.UpdateProfileParams{
		Name:   params.Name,
		Avatar: params.Avatar,
	})
}
