package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/delivery"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/listing"
	authMiddleware "github.com/x-xyz/marketcore/stores/auth/delivery/http/middleware"
)

type handler struct {
	listing listing.Usecase
}

func New(e *echo.Echo, lu listing.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		listing: lu,
	}
	g := e.Group("/listings")
	g.GET("", h.findAll)
	g.GET("/:id", h.get)
	g.POST("", h.create, authMiddleware.Auth())
	g.POST("/:id/buy", h.buy, authMiddleware.Auth())
	g.POST("/:id/cancel", h.cancel, authMiddleware.Auth())
}

// create
//
//	@Summary		Create listing
//	@Description	List an owned, unlocked item at a fixed price in token base units
//	@Tags			listing
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.create.params	true	"params"
//	@Success		201		{object}	object{data=listing.Listing}
//	@Failure		400
//	@Failure		403
//	@Failure		409
//	@Router			/listings [post]
func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	type params struct {
		ItemId      string        `json:"itemId" validate:"required"`
		PriceAmount domain.Amount `json:"priceAmount" validate:"required,amount" example:"50000000000000000000"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.Create(ctx, accountId, p.ItemId, p.PriceAmount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

// buy
//
//	@Summary		Buy listing
//	@Description	Settle a listing with the reference of an on-chain payment of exactly the listing price
//	@Tags			listing
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id		path		string				true	"listing id"
//	@Param			params	body		http.buy.params		true	"params"
//	@Success		200		{object}	object{data=settlement.Receipt}
//	@Failure		409
//	@Failure		422
//	@Failure		425
//	@Failure		503
//	@Router			/listings/{id}/buy [post]
func (h *handler) buy(c echo.Context) error {
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

	res, err := h.listing.Buy(ctx, c.Param("id"), accountId, p.TxRef)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	accountId := c.Get("accountId").(domain.AccountId)

	res, err := h.listing.Cancel(ctx, c.Param("id"), accountId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.listing.Get(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// findAll
//
//	@Summary		List listings
//	@Tags			listing
//	@Produce		json
//	@Param			status	query		string	false	"active, sold or cancelled"
//	@Param			seller	query		string	false	"seller account id"
//	@Param			itemId	query		string	false	"item id"
//	@Param			offset	query		int		false	"offset"
//	@Param			limit	query		int		false	"limit"
//	@Success		200		{object}	object{data=listing.SearchResult}
//	@Router			/listings [get]
func (h *handler) findAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	offset, limit, err := delivery.Pagination(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []listing.FindAllOptionsFunc{listing.WithPagination(offset, limit)}
	if status := c.QueryParam("status"); status != "" {
		opts = append(opts, listing.WithStatus(listing.Status(status)))
	}
	if seller := c.QueryParam("seller"); seller != "" {
		opts = append(opts, listing.WithSeller(domain.AccountId(seller)))
	}
	if itemId := c.QueryParam("itemId"); itemId != "" {
		opts = append(opts, listing.WithItem(itemId))
	}

	res, err := h.listing.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
