package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/relate15/internal/client/api"
	"github.com/dmitrijs2005/relate15/internal/logging"
)

// ErrMissingField is returned by Register when a required field is empty.
var ErrMissingField = errors.New("required field is empty")

// RegisterAPI is the signup and liveness part of the REST client.
type RegisterAPI interface {
	Register(ctx context.Context, in api.RegisterRequest) (string, error)
	Health(ctx context.Context) error
}

// SessionAuth is the authentication part of session.Store.
type SessionAuth interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context)
}

// Signup is the registration form. PicturePath, when set, names a local
// image uploaded as the profile picture.
type Signup struct {
	Email       string
	Password    string
	Name        string
	Role        string
	Interests   []string
	Bio         string
	PicturePath string
}

// AuthService defines account operations for the CLI.
//
// Contract:
//   - Register: create an account; does not log in.
//   - Login, Logout: delegate to the session store.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, in Signup) (string, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context)
	Ping(ctx context.Context) error
}

type authService struct {
	api  RegisterAPI
	sess SessionAuth
	log  logging.Logger
}

func NewAuthService(a RegisterAPI, sess SessionAuth, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{api: a, sess: sess, log: log.With("component", "auth")}
}

func (a *authService) Register(ctx context.Context, in Signup) (string, error) {
	for _, f := range []struct{ name, value string }{
		{"email", in.Email},
		{"password", in.Password},
		{"name", in.Name},
	} {
		if strings.TrimSpace(f.value) == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	req := api.RegisterRequest{
		Email:     strings.TrimSpace(in.Email),
		Password:  in.Password,
		Name:      strings.TrimSpace(in.Name),
		Role:      in.Role,
		Interests: cleanInterests(in.Interests),
		Bio:       in.Bio,
	}

	if in.PicturePath != "" {
		f, err := os.Open(in.PicturePath)
		if err != nil {
			return "", fmt.Errorf("open profile picture: %w", err)
		}
		defer f.Close()
		req.Picture = f
		req.PictureName = filepath.Base(in.PicturePath)
	}

	msg, err := a.api.Register(ctx, req)
	if err != nil {
		return "", err
	}
	a.log.Info(ctx, "account registered", "email", req.Email)
	return msg, nil
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	return a.sess.Login(ctx, strings.TrimSpace(email), password)
}

func (a *authService) Logout(ctx context.Context) {
	a.sess.Logout(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Health(ctx)
}

// cleanInterests trims each interest and drops empty ones.
func cleanInterests(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
