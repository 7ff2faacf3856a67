package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/x-xyz/marketcore/app/bootstrap"
	"github.com/x-xyz/marketcore/base/config"
	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/base/metrics"
	bValidator "github.com/x-xyz/marketcore/base/validator"
	mmiddleware "github.com/x-xyz/marketcore/middleware"
	account_delivery "github.com/x-xyz/marketcore/stores/account/delivery/http"
	auction_delivery "github.com/x-xyz/marketcore/stores/auction/delivery/http"
	auth_delivery "github.com/x-xyz/marketcore/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/marketcore/stores/auth/delivery/http/middleware"
	entry_delivery "github.com/x-xyz/marketcore/stores/entry/delivery/http"
	hc_delivery "github.com/x-xyz/marketcore/stores/healthcheck/delivery/http"
	item_delivery "github.com/x-xyz/marketcore/stores/item/delivery/http"
	listing_delivery "github.com/x-xyz/marketcore/stores/listing/delivery/http"
	inbox_delivery "github.com/x-xyz/marketcore/stores/notification/delivery/http"

	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/x-xyz/marketcore/app/api/docs"
)

func init() {
	config.Load("infra/configs/config.yaml")
}

//	@title			Marketcore API
//	@version		1.0
//	@description	Auctions, listings and on-chain settlement for the player marketplace.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				retrieve token from #/auth/post_auth_sign and apply with `bearer {token}`
func main() {
	defer log.Sync()

	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware(metrics.New("http"))
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	context := ctx.Background()

	app, err := bootstrap.New(context)
	if err != nil {
		context.WithField("err", err).Panic("bootstrap.New failed")
	}

	authMiddleware := auth_middleware.New(app.Auth)

	hc_delivery.New(e, app.HealthCheck)
	auth_delivery.New(e, app.Auth, viper.GetString("auth.signingMsgTemplate"))
	account_delivery.New(e, app.Account, authMiddleware)
	item_delivery.New(e, app.Item, authMiddleware)
	listing_delivery.New(e, app.Listing, authMiddleware)
	auction_delivery.New(e, app.Auction, authMiddleware)
	entry_delivery.New(e, app.Entry, authMiddleware)
	inbox_delivery.New(e, app.Inbox, authMiddleware)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	shutdownCtx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
	app.Close(shutdownCtx)
}
