package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/delivery"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/notification"
	authMiddleware "github.com/x-xyz/marketcore/stores/auth/delivery/http/middleware"
)

type handler struct {
	inbox notification.InboxUsecase
}

func New(e *echo.Echo, iu notification.InboxUsecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		inbox: iu,
	}
	g := e.Group("/inbox", authMiddleware.Auth())
	g.GET("", h.list)
	g.POST("/:id/read", h.markRead)
}

// list
//
//	@Summary		Inbox
//	@Tags			inbox
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			unread	query		bool	false	"unread only"
//	@Param			offset	query		int		false	"offset"
//	@Param			limit	query		int		false	"limit"
//	@Success		200		{object}	object{data=[]notification.InboxMessage}
//	@Router			/inbox [get]
func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	offset, limit, err := delivery.Pagination(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	unread := false
	if err := echo.QueryParamsBinder(c).Bool("unread", &unread).BindError(); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	res, err := h.inbox.List(ctx, accountId, unread, offset, limit)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) markRead(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	if err := h.inbox.MarkRead(ctx, accountId, c.Param("id")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
