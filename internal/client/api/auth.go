package api

import (
	"context"

	"github.com/dmitrijs2005/ums/internal/client/models"
)

type AuthAPI struct{ d Doer }

// Login returns the user record with the token filled in when the backend
// sent one. The caller decides what a missing token means.
func (a *AuthAPI) Login(ctx context.Context, f models.LoginForm) (*models.User, error) {
	env, err := a.d.Post(ctx, "/auth/login", nil, f)
	if err != nil {
		return nil, err
	}
	return decodeAuth(env)
}

func (a *AuthAPI) Register(ctx context.Context, f models.RegisterForm) (*models.User, error) {
	env, err := a.d.Post(ctx, "/auth/register", nil, f)
	if err != nil {
		return nil, err
	}
	return decodeAuth(env)
}

func (a *AuthAPI) RefreshToken(ctx context.Context) (string, error) {
	env, err := a.d.Post(ctx, "/auth/refresh", nil, nil)
	if err != nil {
		return "", err
	}
	return decodeToken(env)
}

func (a *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	env, err := a.d.Get(ctx, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.User](env, keyUser)
}

func (a *AuthAPI) UpdateProfile(ctx context.Context, f models.ProfileForm) (*models.User, error) {
	env, err := a.d.Put(ctx, "/auth/me", nil, f)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.User](env, keyUser)
}
