package coingecko

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	bCtx "github.com/x-xyz/marketcore/base/ctx"
)

const DefaultApi = "https://api.coingecko.com/api/v3"

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
	ErrMarketsLen      = errors.New("len(markets) != 1")
)

type Client interface {
	GetPrice(ctx bCtx.Ctx, id string) (decimal.Decimal, error)
}

type ClientCfg struct {
	HttpClient *http.Client
	Timeout    time.Duration
	// Api defaults to DefaultApi
	Api string
}

type Markets []Market

type Market struct {
	Id           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
}
