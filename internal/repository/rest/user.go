package rest

import (
	"context"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/repository"
)

type userRepository struct {
	api Doer
}

func NewUserRepository(api Doer) repository.UserRepository {
	return &userRepository{api: api}
}

func (r *userRepository) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := r.api.Post(ctx, "/api/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepository) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := r.api.Post(ctx, "/api/auth/register", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepository) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := r.api.Get(ctx, "/api/users/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	var out domain.User
	if err := r.api.Put(ctx, "/api/users/me", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
