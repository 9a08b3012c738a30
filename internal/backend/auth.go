package backend

import (
	"context"
	"net/http"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
	UserID   int64  `json:"userId"`
	ID       int64  `json:"id"`
}

// Login autentica no backend; o token emitido acompanha a sessão do BFF.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", LoginRequest{Username: username, Password: password}, &out); err != nil {
		return LoginResponse{}, err
	}
	if out.UserID == 0 {
		out.UserID = out.ID
	}
	return out, nil
}
