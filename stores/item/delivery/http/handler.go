package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/delivery"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/item"
	authMiddleware "github.com/x-xyz/marketcore/stores/auth/delivery/http/middleware"
)

type handler struct {
	item item.Usecase
}

func New(e *echo.Echo, iu item.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		item: iu,
	}
	g := e.Group("/items")
	g.GET("", h.getOwnItems, authMiddleware.Auth())
	g.GET("/:id", h.getItem)
}

// getOwnItems
//
//	@Summary		List own items
//	@Tags			item
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			offset	query		int	false	"offset"
//	@Param			limit	query		int	false	"limit"
//	@Success		200		{object}	object{data=[]item.Item}
//	@Failure		401
//	@Router			/items [get]
func (h *handler) getOwnItems(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	offset, limit, err := delivery.Pagination(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	items, err := h.item.FindAll(ctx, item.WithOwner(accountId), item.WithPagination(offset, limit))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, items)
}

func (h *handler) getItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.item.Get(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
