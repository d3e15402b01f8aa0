package cms

import (
	"context"
	"net/http"

	"dinebook/internal/models"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string  `json:"token"`
	User  apiUser `json:"user"`
}

type apiUser struct {
	LegacyID string `json:"_id"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (u apiUser) normalize() models.User {
	id := u.ID
	if id == "" {
		id = u.LegacyID
	}
	return models.User{ID: id, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*models.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &models.Session{Token: resp.Token, User: resp.User.normalize()}, nil
}

func (c *Client) Signup(ctx context.Context, data SignupData) (*models.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", data, &resp); err != nil {
		return nil, err
	}
	return &models.Session{Token: resp.Token, User: resp.User.normalize()}, nil
}

func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var resp apiUser
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, &resp); err != nil {
		return nil, err
	}
	user := resp.normalize()
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, user models.User) (*models.User, error) {
	var resp apiUser
	if err := c.do(ctx, http.MethodPut, "/user/profile", user, &resp); err != nil {
		return nil, err
	}
	updated := resp.normalize()
	return &updated, nil
}
