package coingecko

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bCtx "github.com/x-xyz/marketcore/base/ctx"
)

func TestGetPrice(t *testing.T) {
	req := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("ids") {
		case "apecoin":
			w.Write([]byte(`[{"id":"apecoin","symbol":"ape","name":"ApeCoin","current_price":1.25}]`))
		case "empty":
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	c := NewClient(&ClientCfg{Timeout: time.Second, Api: srv.URL})
	ctx := bCtx.Background()

	price, err := Source(c, "apecoin").UsdPrice(ctx)
	req.NoError(err)
	req.Equal("1.25", price.String())

	_, err = c.GetPrice(ctx, "empty")
	req.ErrorIs(err, ErrMarketsLen)

	_, err = c.GetPrice(ctx, "limited")
	req.ErrorIs(err, ErrStatusCodeNotOk)
}
