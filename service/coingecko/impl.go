package coingecko

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	bCtx "github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain/pricing"
)

func NewClient(cfg *ClientCfg) Client {
	api := cfg.Api
	if api == "" {
		api = DefaultApi
	}
	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &client{
		client:  httpClient,
		timeout: cfg.Timeout,
		api:     api,
	}
}

type client struct {
	client  *http.Client
	timeout time.Duration
	api     string
}

func (c *client) GetPrice(ctx bCtx.Ctx, id string) (decimal.Decimal, error) {
	params := url.Values{
		"vs_currency": {"usd"},
		"ids":         {id},
	}
	url := fmt.Sprintf("%s/coins/markets?%s", c.api, params.Encode())
	data, err := c.get(ctx, url)
	if err != nil {
		return decimal.Zero, err
	}
	resp := Markets{}
	if err := json.Unmarshal(data, &resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return decimal.Zero, err
	}
	if len(resp) != 1 {
		ctx.WithField("id", id).Error(ErrMarketsLen)
		return decimal.Zero, ErrMarketsLen
	}
	return decimal.NewFromFloat(resp[0].CurrentPrice), nil
}

func (c *client) get(ctx bCtx.Ctx, url string) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return nil, ErrStatusCodeNotOk
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	return body, nil
}

// Source adapts a Client into a pricing.Source for a single coin
func Source(c Client, id string) pricing.Source {
	return &source{c, id}
}

type source struct {
	client Client
	id     string
}

func (s *source) UsdPrice(ctx bCtx.Ctx) (decimal.Decimal, error) {
	return s.client.GetPrice(ctx, s.id)
}
