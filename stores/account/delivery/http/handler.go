package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/delivery"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/account"
	authMiddleware "github.com/x-xyz/marketcore/stores/auth/delivery/http/middleware"
)

type handler struct {
	au account.Usecase
}

func New(e *echo.Echo, au account.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		au: au,
	}
	g := e.Group("/account")
	g.GET("/me", h.getMe, authMiddleware.Auth())
}

// getMe
//
//	@Summary		Get own account
//	@Tags			account
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Success		200	{object}	object{data=account.Account}
//	@Failure		401
//	@Failure		404
//	@Router			/account/me [get]
func (h *handler) getMe(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	info, err := h.au.Get(ctx, accountId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, info)
}
