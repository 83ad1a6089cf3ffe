package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/netx"
)

// RegisterRequest is the signup form.
type RegisterRequest struct {
	Email     string
	Password  string
	Name      string
	Role      string
	Interests []string
	Bio       string

	// Picture is an optional profile picture; PictureName is its file name.
	Picture     io.Reader
	PictureName string
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type VerifyResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// Register submits the signup form as multipart/form-data and returns the
// server's confirmation message.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (string, error) {
	role := in.Role
	if role == "" {
		role = "user"
	}
	fields := []netx.Field{
		{Name: "email", Value: in.Email},
		{Name: "password", Value: in.Password},
		{Name: "name", Value: in.Name},
		{Name: "role", Value: role},
		{Name: "interests", Value: strings.Join(in.Interests, ",")},
		{Name: "bio", Value: in.Bio},
	}

	var file *netx.FormFile
	if in.Picture != nil {
		name := in.PictureName
		if name == "" {
			name = "profile"
		}
		file = &netx.FormFile{Field: "profilePicture", FileName: name, Content: in.Picture}
	}

	body, contentType, err := netx.EncodeMultipart(fields, file)
	if err != nil {
		return "", fmt.Errorf("api: register form: %w", err)
	}

	var out struct {
		Message string `json:"message"`
	}
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        Endpoints.Auth.Register,
		body:        body,
		contentType: contentType,
		public:      true,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// Login exchanges email and password for a token and the user record. It
// does not store the token; the session store decides that.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	r, err := jsonRequest(http.MethodPost, Endpoints.Auth.Login, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	r.public = true

	var out LoginResponse
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, fmt.Errorf("api: login response lacks token or user")
	}
	return &out, nil
}

// Verify checks the stored credential and returns the user it belongs to.
func (c *Client) Verify(ctx context.Context) (*VerifyResponse, error) {
	var out VerifyResponse
	if err := c.getJSON(ctx, Endpoints.Auth.Verify, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("api: verify response lacks user")
	}
	return &out, nil
}

// Logout tells the backend to end the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, Endpoints.Auth.Logout, nil, nil)
}
