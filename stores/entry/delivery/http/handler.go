package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/delivery"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/entry"
	authMiddleware "github.com/x-xyz/marketcore/stores/auth/delivery/http/middleware"
)

type handler struct {
	entry entry.Usecase
}

func New(e *echo.Echo, eu entry.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		entry: eu,
	}
	g := e.Group("/entry")
	g.GET("/quote", h.quote)
	g.GET("/status", h.status, authMiddleware.Auth())
	g.POST("/claim", h.claim, authMiddleware.Auth())
}

// quote
//
//	@Summary		Starter pack quote
//	@Description	Token amount the starter pack costs at the current price, and where to send it
//	@Tags			entry
//	@Produce		json
//	@Success		200	{object}	object{data=entry.Quote}
//	@Failure		503
//	@Router			/entry/quote [get]
func (h *handler) quote(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.entry.Quote(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) status(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	res, err := h.entry.Status(ctx, accountId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// claim
//
//	@Summary		Claim starter pack
//	@Description	Grant the starter pack against a payment to the treasury. Each account claims once.
//	@Tags			entry
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.claim.params	true	"params"
//	@Success		200		{object}	object{data=settlement.Receipt}
//	@Failure		409
//	@Failure		422
//	@Failure		425
//	@Failure		503
//	@Router			/entry/claim [post]
func (h *handler) claim(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	type params struct {
		TxRef domain.TxHash `json:"txRef" validate:"required,txref"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.entry.Claim(ctx, accountId, p.TxRef)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
