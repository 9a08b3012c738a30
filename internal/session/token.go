package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims são os campos do token do backend que o BFF aproveita.
type Claims struct {
	Subject   string
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

// ClaimsFromToken lê o JWT sem verificar a assinatura; quem valida o token
// é o backend em cada chamada.
func ClaimsFromToken(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("parse token: unexpected claims type %T", parsed.Claims)
	}

	var c Claims
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if r, ok := mc["role"].(string); ok {
		c.Role = r
	}
	c.UserID = claimInt(mc["userId"])
	if c.UserID == 0 {
		c.UserID = claimInt(mc["user_id"])
	}
	if c.UserID == 0 {
		c.UserID, _ = strconv.ParseInt(c.Subject, 10, 64)
	}
	return c, nil
}

func claimInt(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case string:
		id, _ := strconv.ParseInt(n, 10, 64)
		return id
	}
	return 0
}
