package delivery

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// errStatus is checked in order, the first match wins
var errStatus = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{query.ErrNotFound, http.StatusNotFound},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrInvalidSignature, http.StatusUnauthorized},
	{domain.ErrNotOwner, http.StatusForbidden},
	{domain.ErrNotWinner, http.StatusForbidden},
	{domain.ErrNotActive, http.StatusConflict},
	{domain.ErrNotEnded, http.StatusConflict},
	{domain.ErrHasBids, http.StatusConflict},
	{domain.ErrAlreadyListed, http.StatusConflict},
	{domain.ErrItemOnHold, http.StatusConflict},
	{domain.ErrAlreadyConsumed, http.StatusConflict},
	{domain.ErrAlreadyClaimed, http.StatusConflict},
	{domain.ErrConcurrentUpdate, http.StatusConflict},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrSelfTrade, http.StatusUnprocessableEntity},
	{domain.ErrSelfBid, http.StatusUnprocessableEntity},
	{domain.ErrBelowMinimum, http.StatusUnprocessableEntity},
	{domain.ErrUseBuyNowFlow, http.StatusUnprocessableEntity},
	{domain.ErrPaymentInvalid, http.StatusUnprocessableEntity},
	{domain.ErrMissingPayout, http.StatusUnprocessableEntity},
	{domain.ErrUnconfirmed, http.StatusTooEarly},
	{domain.ErrLedgerUnavailable, http.StatusServiceUnavailable},
	{domain.ErrBadParamInput, http.StatusBadRequest},
	{domain.ErrInvalidAddress, http.StatusBadRequest},
	{domain.ErrInvalidTxRef, http.StatusBadRequest},
	{domain.ErrInvalidAmount, http.StatusBadRequest},
}

// StatusOf maps a usecase error to its http status, falling back to def
func StatusOf(err error, def int) int {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	for _, e := range errStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return def
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = StatusOf(err, status)
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Pagination reads the offset and limit query params
func Pagination(c echo.Context) (offset, limit int32, err error) {
	limit = defaultLimit
	if err := echo.QueryParamsBinder(c).
		Int32("offset", &offset).
		Int32("limit", &limit).
		BindError(); err != nil {
		return 0, 0, domain.ErrBadParamInput
	}
	if offset < 0 || limit <= 0 || limit > maxLimit {
		return 0, 0, domain.ErrBadParamInput
	}
	return offset, limit, nil
}
