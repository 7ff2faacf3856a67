package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
)

type AuthMiddleware struct {
	auth domain.AuthUsecase
}

func New(auth domain.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// Auth requires a bearer token and puts the caller's account id in
// c.Get("accountId") and on the request ctx.
func (m *AuthMiddleware) Auth() echo.MiddlewareFunc {
	return middleware.KeyAuth(m.validateAuthToken)
}

func (m *AuthMiddleware) validateAuthToken(key string, c echo.Context) (bool, error) {
	cont := c.Get("ctx").(ctx.Ctx)
	if id, err := m.auth.ParseToken(cont, key); err != nil {
		cont.WithField("err", err).Info("auth.ParseToken failed")
		return false, nil
	} else {
		c.Set("accountId", id)
		c.Set("ctx", ctx.WithAccount(cont, string(id)))
		return true, nil
	}
}
