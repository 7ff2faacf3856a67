package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/delivery"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/auction"
	"github.com/x-xyz/marketcore/domain/settlement"
	authMiddleware "github.com/x-xyz/marketcore/stores/auth/delivery/http/middleware"
)

type handler struct {
	auction auction.Usecase
}

func New(e *echo.Echo, au auction.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		auction: au,
	}
	g := e.Group("/auctions")
	g.GET("", h.findAll)
	g.GET("/:id", h.get)
	g.GET("/:id/bids", h.bids)
	g.POST("", h.create, authMiddleware.Auth())
	g.POST("/:id/bids", h.placeBid, authMiddleware.Auth())
	g.POST("/:id/buy-now", h.buyNow, authMiddleware.Auth())
	g.POST("/:id/finalize", h.finalize, authMiddleware.Auth())
	g.POST("/:id/reclaim", h.reclaim, authMiddleware.Auth())
}

// create
//
//	@Summary		Create auction
//	@Description	Auction an owned, unlocked item. Duration defaults to 48 hours when omitted.
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.create.params	true	"params"
//	@Success		201		{object}	object{data=auction.View}
//	@Failure		400
//	@Failure		403
//	@Failure		409
//	@Router			/auctions [post]
func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	type params struct {
		ItemId          string        `json:"itemId" validate:"required"`
		ReserveAmount   domain.Amount `json:"reserveAmount" validate:"required,amount"`
		DurationSeconds int64         `json:"durationSeconds" validate:"gte=0"`
		BuyNowAmount    domain.Amount `json:"buyNowAmount" validate:"omitempty,amount"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.Create(ctx, accountId, p.ItemId, p.ReserveAmount, p.DurationSeconds, p.BuyNowAmount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

// placeBid
//
//	@Summary		Place bid
//	@Description	Bids are commitments, no payment moves until the auction is finalized
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id		path		string					true	"auction id"
//	@Param			params	body		http.placeBid.params	true	"params"
//	@Success		200		{object}	object{data=auction.BidResult}
//	@Failure		400
//	@Failure		409
//	@Failure		422
//	@Router			/auctions/{id}/bids [post]
func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	type params struct {
		Amount domain.Amount `json:"amount" validate:"required,amount"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.PlaceBid(ctx, c.Param("id"), accountId, p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type settleParams struct {
	TxRef domain.TxHash `json:"txRef" validate:"required,txref"`
}

// buyNow
//
//	@Summary		Buy now
//	@Description	Close an active auction at its buy now price
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id		path		string				true	"auction id"
//	@Param			params	body		http.settleParams	true	"params"
//	@Success		200		{object}	object{data=settlement.Receipt}
//	@Failure		409
//	@Failure		422
//	@Failure		425
//	@Failure		503
//	@Router			/auctions/{id}/buy-now [post]
func (h *handler) buyNow(c echo.Context) error {
	return h.settle(c, h.auction.BuyNow)
}

// finalize
//
//	@Summary		Finalize auction
//	@Description	The top bidder pays the top bid after the auction ended
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id		path		string				true	"auction id"
//	@Param			params	body		http.settleParams	true	"params"
//	@Success		200		{object}	object{data=settlement.Receipt}
//	@Failure		403
//	@Failure		409
//	@Failure		422
//	@Failure		425
//	@Failure		503
//	@Router			/auctions/{id}/finalize [post]
func (h *handler) finalize(c echo.Context) error {
	return h.settle(c, h.auction.Finalize)
}

func (h *handler) settle(c echo.Context, fn func(ctx.Ctx, string, domain.AccountId, domain.TxHash) (*settlement.Receipt, error)) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	p := &settleParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := fn(ctx, c.Param("id"), accountId, p.TxRef)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) reclaim(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	res, err := h.auction.Reclaim(ctx, c.Param("id"), accountId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.auction.Get(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) bids(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.auction.Bids(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// findAll
//
//	@Summary		List auctions
//	@Tags			auction
//	@Produce		json
//	@Param			status	query		string	false	"active or finalized"
//	@Param			seller	query		string	false	"seller account id"
//	@Param			itemId	query		string	false	"item id"
//	@Param			offset	query		int		false	"offset"
//	@Param			limit	query		int		false	"limit"
//	@Success		200		{object}	object{data=auction.SearchResult}
//	@Router			/auctions [get]
func (h *handler) findAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	offset, limit, err := delivery.Pagination(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []auction.FindAllOptionsFunc{auction.WithPagination(offset, limit)}
	if status := c.QueryParam("status"); status != "" {
		opts = append(opts, auction.WithStatus(auction.Status(status)))
	}
	if seller := c.QueryParam("seller"); seller != "" {
		opts = append(opts, auction.WithSeller(domain.AccountId(seller)))
	}
	if itemId := c.QueryParam("itemId"); itemId != "" {
		opts = append(opts, auction.WithItem(itemId))
	}

	res, err := h.auction.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
