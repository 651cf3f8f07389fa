package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"admin/internal/configuration"
	"admin/internal/models"
)

// loginReply accepts any JSON shape for the fields the login flow reads.
// Values of an unexpected type are treated as absent.
type loginReply struct {
	Token   any             `json:"token"`
	Message any             `json:"message"`
	User    json.RawMessage `json:"user"`
}

type loginUser struct {
	Email any `json:"email"`
	Role  any `json:"role"`
}

// Login posts credentials to the backend. A non-2xx reply is returned with its status and
// whatever message could be read; only transport failures and 2xx bodies that are not a JSON
// object are errors.
func (c *Client) Login(ctx context.Context, credentials models.AuthLoginBody) (int, models.BackendLoginResponse, error) {
	req := c.R(ctx, "").
		SetHeader("Content-Type", "application/json").
		SetBody(credentials)
	resp, err := c.Send(req, http.MethodPost, configuration.BackendLoginPath)
	if err != nil {
		return 0, models.BackendLoginResponse{}, err
	}

	var raw loginReply
	if err = json.Unmarshal(resp.Body(), &raw); err != nil {
		if resp.IsSuccess() {
			return resp.StatusCode(), models.BackendLoginResponse{}, fmt.Errorf("decode login reply: %w", err)
		}
		return resp.StatusCode(), models.BackendLoginResponse{}, nil
	}

	var user loginUser
	_ = json.Unmarshal(raw.User, &user)

	return resp.StatusCode(), models.BackendLoginResponse{
		Token:   stringOf(raw.Token),
		Message: stringOf(raw.Message),
		User: models.BackendUser{
			Email: stringOf(user.Email),
			Role:  stringOf(user.Role),
		},
	}, nil
}

func stringOf(value any) string {
	s, _ := value.(string)
	return s
}

// Logout revokes the token on the backend.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.Send(c.R(ctx, token), http.MethodPost, configuration.BackendLogoutPath)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return &StatusError{Path: configuration.BackendLogoutPath, Status: resp.StatusCode()}
	}
	return nil
}
