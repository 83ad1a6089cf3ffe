package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/relate15/internal/client/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegisterAPI struct {
	got       api.RegisterRequest
	picture   []byte
	msg       string
	err       error
	healthErr error
}

func (f *fakeRegisterAPI) Register(ctx context.Context, in api.RegisterRequest) (string, error) {
	f.got = in
	if in.Picture != nil {
		b, err := io.ReadAll(in.Picture)
		if err != nil {
			return "", err
		}
		f.picture = b
	}
	return f.msg, f.err
}

func (f *fakeRegisterAPI) Health(ctx context.Context) error { return f.healthErr }

type fakeSessionAuth struct {
	email, password string
	loginErr        error
	logouts         int
}

func (f *fakeSessionAuth) Login(ctx context.Context, email, password string) error {
	f.email, f.password = email, password
	return f.loginErr
}

func (f *fakeSessionAuth) Logout(ctx context.Context) { f.logouts++ }

func TestRegister_SendsFormWithPicture(t *testing.T) {
	dir := t.TempDir()
	pic := filepath.Join(dir, "me.png")
	require.NoError(t, os.WriteFile(pic, []byte("PNG"), 0o600))

	fake := &fakeRegisterAPI{msg: "User registered"}
	svc := NewAuthService(fake, &fakeSessionAuth{}, nil)

	msg, err := svc.Register(context.Background(), Signup{
		Email:       " ann@relate15.io ",
		Password:    "pw",
		Name:        "Ann",
		Interests:   []string{" go ", "", "chess"},
		PicturePath: pic,
	})
	require.NoError(t, err)
	assert.Equal(t, "User registered", msg)

	assert.Equal(t, "ann@relate15.io", fake.got.Email)
	assert.Equal(t, []string{"go", "chess"}, fake.got.Interests)
	assert.Equal(t, "me.png", fake.got.PictureName)
	assert.Equal(t, []byte("PNG"), fake.picture)
}

func TestRegister_Validation(t *testing.T) {
	fake := &fakeRegisterAPI{}
	svc := NewAuthService(fake, &fakeSessionAuth{}, nil)

	_, err := svc.Register(context.Background(), Signup{Email: "a@b", Password: "pw"})
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "name")

	_, err = svc.Register(context.Background(), Signup{Email: "a@b", Password: "pw", Name: "A", PicturePath: filepath.Join(t.TempDir(), "missing.png")})
	require.Error(t, err)
	assert.Empty(t, fake.got.Email)
}

func TestRegister_PropagatesServerError(t *testing.T) {
	fake := &fakeRegisterAPI{err: &api.StatusError{Code: 409, Message: "Email taken"}}
	svc := NewAuthService(fake, &fakeSessionAuth{}, nil)

	_, err := svc.Register(context.Background(), Signup{Email: "a@b", Password: "pw", Name: "A"})
	assert.Equal(t, "Email taken", api.Message(err, ""))
}

func TestLoginLogoutPing(t *testing.T) {
	sess := &fakeSessionAuth{}
	fake := &fakeRegisterAPI{healthErr: errors.New("down")}
	svc := NewAuthService(fake, sess, nil)
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, " ann@relate15.io", "pw"))
	assert.Equal(t, "ann@relate15.io", sess.email)
	assert.Equal(t, "pw", sess.password)

	svc.Logout(ctx)
	assert.Equal(t, 1, sess.logouts)

	assert.Error(t, svc.Ping(ctx))
}
