package bootstrap

import (
	"math/big"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/database/mongoclient"
	"github.com/x-xyz/marketcore/base/database/redisclient"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/base/metrics"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/account"
	"github.com/x-xyz/marketcore/domain/auction"
	"github.com/x-xyz/marketcore/domain/entry"
	hcdomain "github.com/x-xyz/marketcore/domain/healthcheck"
	"github.com/x-xyz/marketcore/domain/item"
	"github.com/x-xyz/marketcore/domain/keys"
	"github.com/x-xyz/marketcore/domain/listing"
	"github.com/x-xyz/marketcore/domain/notification"
	"github.com/x-xyz/marketcore/domain/pricing"
	"github.com/x-xyz/marketcore/domain/settlement"
	"github.com/x-xyz/marketcore/service/cache"
	"github.com/x-xyz/marketcore/service/cache/provider"
	"github.com/x-xyz/marketcore/service/cache/provider/compound"
	"github.com/x-xyz/marketcore/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/marketcore/service/cache/provider/redis"
	"github.com/x-xyz/marketcore/service/chain"
	"github.com/x-xyz/marketcore/service/coingecko"
	"github.com/x-xyz/marketcore/service/discord"
	"github.com/x-xyz/marketcore/service/events"
	"github.com/x-xyz/marketcore/service/query"
	"github.com/x-xyz/marketcore/service/redis"
	account_repository "github.com/x-xyz/marketcore/stores/account/repository"
	account_usecase "github.com/x-xyz/marketcore/stores/account/usecase"
	auction_repository "github.com/x-xyz/marketcore/stores/auction/repository"
	auction_usecase "github.com/x-xyz/marketcore/stores/auction/usecase"
	auth_usecase "github.com/x-xyz/marketcore/stores/auth/usecase"
	entry_repository "github.com/x-xyz/marketcore/stores/entry/repository"
	entry_usecase "github.com/x-xyz/marketcore/stores/entry/usecase"
	hc_repo "github.com/x-xyz/marketcore/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/marketcore/stores/healthcheck/usecase"
	item_repository "github.com/x-xyz/marketcore/stores/item/repository"
	item_usecase "github.com/x-xyz/marketcore/stores/item/usecase"
	listing_repository "github.com/x-xyz/marketcore/stores/listing/repository"
	listing_usecase "github.com/x-xyz/marketcore/stores/listing/usecase"
	notification_repository "github.com/x-xyz/marketcore/stores/notification/repository"
	notification_usecase "github.com/x-xyz/marketcore/stores/notification/usecase"
	payment_repository "github.com/x-xyz/marketcore/stores/payment/repository"
	payment_usecase "github.com/x-xyz/marketcore/stores/payment/usecase"
	pricing_usecase "github.com/x-xyz/marketcore/stores/pricing/usecase"
	settlement_usecase "github.com/x-xyz/marketcore/stores/settlement/usecase"
)

// App holds every usecase the binaries serve, wired from viper settings
type App struct {
	Mongo *mongoclient.Client
	Query query.Mongo
	// Redis is nil when redis_cache.uri is empty
	Redis  redis.Service
	Ledger settlement.Ledger
	Sink   *notification_usecase.Sink

	Auth        domain.AuthUsecase
	Account     account.Usecase
	Item        item.Usecase
	Listing     listing.Usecase
	Auction     auction.Usecase
	Entry       entry.Usecase
	Inbox       notification.InboxUsecase
	HealthCheck hcdomain.HealthCheckUsecase

	natsConn *nats.Conn
}

func New(c ctx.Ctx) (*App, error) {
	app := &App{}

	c.Info("init mongo")
	app.Mongo = mongoclient.MustConnectMongoClient(mongoclient.Config{
		URI:                viper.GetString("mongo.uri"),
		AuthDBName:         viper.GetString("mongo.authDBName"),
		DBName:             viper.GetString("mongo.dbName"),
		SSL:                viper.GetBool("mongo.enableSSL"),
		SetSafe:            true,
		PoolSizeMultiplier: 2,
	})
	app.Query = query.New(app.Mongo, checkIndex(c))
	if viper.GetBool("mongo.ensureIndexes") {
		if err := app.Query.EnsureIndexes(c, Indexes()); err != nil {
			return nil, err
		}
	}

	if uri := viper.GetString("redis_cache.uri"); uri != "" {
		c.Info("init redis cache")
		name := viper.GetString("redis_cache.name")
		pool := redisclient.MustConnectRedis(uri, viper.GetString("redis_cache.password"), redisclient.RedisParam{
			PoolMultiplier: viper.GetFloat64("redis_cache.poolMultiplier"),
			Retry:          true,
		})
		app.Redis = redis.New(name, metrics.New(name), pool)
	}

	c.Info("init ledger")
	client, err := chain.Dial(c, &chain.ClientCfg{
		RpcUrl:      viper.GetString("ledger.rpcUrl"),
		Concurrency: viper.GetInt("ledger.rpcConcurrency"),
	})
	if err != nil {
		return nil, err
	}
	app.Ledger = chain.NewLedger(client)

	sink, conn, err := newSink(c, app.Query)
	if err != nil {
		return nil, err
	}
	app.Sink = sink
	app.natsConn = conn

	oracle, err := newOracle(app.Redis)
	if err != nil {
		return nil, err
	}

	accountRepo := account_repository.New(app.Query, app.Redis)
	itemRepo := item_repository.New(app.Query)
	listingRepo := listing_repository.New(app.Query)
	auctionRepo := auction_repository.New(app.Query)
	bidRepo := auction_repository.NewBidRepo(app.Query)
	txRecordRepo := payment_repository.NewTxRecordRepo(app.Query)
	claimRepo := entry_repository.NewClaimRepo(app.Query)
	inboxRepo := notification_repository.NewInboxRepo(app.Query)

	app.Account = account_usecase.New(accountRepo)
	app.Auth = auth_usecase.New(viper.GetString("auth.jwtSecret"), viper.GetString("auth.signingMsgTemplate"), app.Account)
	app.Item = item_usecase.New(&item_usecase.Cfg{
		Repo:       itemRepo,
		HoldPeriod: time.Duration(viper.GetInt("entry.holdDays")) * 24 * time.Hour,
	})

	orchestrator := settlement_usecase.New(&settlement_usecase.Cfg{
		Verifier: payment_usecase.NewVerifier(&payment_usecase.VerifierCfg{
			Ledger:           app.Ledger,
			Token:            domain.Address(viper.GetString("ledger.token")).ToLower(),
			MinConfirmations: viper.GetUint64("payment.minConfirmations"),
		}),
		ReplayGuard: payment_usecase.NewReplayGuard(txRecordRepo, time.Now),
		Transactor:  app.Query,
		Sink:        app.Sink,
	})

	app.Listing = listing_usecase.New(&listing_usecase.Cfg{
		Repo:         listingRepo,
		ItemRepo:     itemRepo,
		Account:      app.Account,
		Orchestrator: orchestrator,
		Transactor:   app.Query,
	})
	app.Auction = auction_usecase.New(&auction_usecase.Cfg{
		Repo:         auctionRepo,
		BidRepo:      bidRepo,
		ItemRepo:     itemRepo,
		Account:      app.Account,
		Orchestrator: orchestrator,
		Transactor:   app.Query,
		Sink:         app.Sink,
		Policy:       auctionPolicy(),
		ReclaimBatch: viper.GetInt("sweeper.batch"),
	})

	priceUsd, err := decimal.NewFromString(viper.GetString("entry.priceUsd"))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "priceUsd": viper.GetString("entry.priceUsd")}).Error("invalid entry.priceUsd")
		return nil, err
	}
	app.Entry = entry_usecase.New(&entry_usecase.Cfg{
		ClaimRepo:    claimRepo,
		Items:        app.Item,
		Account:      app.Account,
		Oracle:       oracle,
		Orchestrator: orchestrator,
		PriceUsd:     priceUsd,
		Treasury:     domain.Address(viper.GetString("entry.treasury")).ToLower(),
		PackSize:     viper.GetInt("entry.packSize"),
		ItemType:     viper.GetString("entry.itemType"),
	})
	app.Inbox = notification_usecase.NewInbox(&notification_usecase.InboxCfg{Repo: inboxRepo})
	app.HealthCheck = hc_usecase.New(hc_repo.New(app.Mongo, app.Redis), app.Ledger)

	return app, nil
}

// Close drains the notification pool before dropping the event stream
func (a *App) Close(c ctx.Ctx) {
	a.Sink.Close()
	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil {
			c.WithField("err", err).Warn("nats drain failed")
		}
	}
	if err := a.Mongo.Disconnect(c); err != nil {
		c.WithField("err", err).Warn("mongo disconnect failed")
	}
}

// newSink always writes the inbox, the event stream and the discord feed are optional
func newSink(c ctx.Ctx, q query.Mongo) (*notification_usecase.Sink, *nats.Conn, error) {
	channels := []notification_usecase.Channel{
		{
			Name:      "inbox",
			Publisher: notification_usecase.NewInboxPublisher(&notification_usecase.InboxCfg{Repo: notification_repository.NewInboxRepo(q)}),
		},
	}

	var conn *nats.Conn
	if url := viper.GetString("nats.url"); url != "" {
		var err error
		conn, err = events.Connect(url, viper.GetString("app_name"))
		if err != nil {
			c.WithFields(log.Fields{"err": err, "url": url}).Error("events.Connect failed")
			return nil, nil, err
		}
		channels = append(channels, notification_usecase.Channel{Name: "nats", Publisher: events.NewPublisher(conn)})
	}

	if botKey := viper.GetString("discord.botKey"); botKey != "" {
		feed, err := discord.NewSaleFeed(discord.Config{
			BotKey:    botKey,
			ChannelId: viper.GetString("discord.channelId"),
		})
		if err != nil {
			c.WithField("err", err).Error("discord.NewSaleFeed failed")
			return nil, nil, err
		}
		channels = append(channels, notification_usecase.Channel{Name: "discord", Publisher: feed})
	}

	return notification_usecase.NewSink(&notification_usecase.SinkCfg{
		Channels: channels,
		Workers:  viper.GetInt("notification.workers"),
	}), conn, nil
}

func newOracle(red redis.Service) (pricing.Oracle, error) {
	var override decimal.Decimal
	if s := viper.GetString("pricing.override"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		override = d
	}

	layers := []provider.Provider{primitive.NewPrimitive("pricing", 1)}
	if red != nil && viper.GetBool("pricing.redis") {
		layers = append(layers, redisCache.NewRedis(red))
	}
	ttl := viper.GetDuration("pricing.ttl")

	gecko := coingecko.NewClient(&coingecko.ClientCfg{
		Api:        viper.GetString("pricing.api"),
		HttpClient: &http.Client{},
		Timeout:    10 * time.Second,
	})
	return pricing_usecase.NewOracle(&pricing_usecase.OracleCfg{
		Source: coingecko.Source(gecko, viper.GetString("pricing.coinId")),
		Cache: cache.New(cache.ServiceConfig{
			Ttl:   ttl,
			Pfx:   keys.PfxPrice,
			Cache: compound.NewCompound(layers),
		}),
		Ttl:           ttl,
		Override:      override,
		TokenDecimals: viper.GetInt32("ledger.tokenDecimals"),
	}), nil
}

// checkIndex turns on the query index audit. The audit runs transactions
// without a session, so it is only honoured with debug on.
func checkIndex(c ctx.Ctx) bool {
	if !viper.GetBool("mongo.checkIndex") {
		return false
	}
	if !viper.GetBool("debug") {
		c.Warn("mongo.checkIndex ignored without debug, settlements need transactions")
		return false
	}
	c.Warn("mongo.checkIndex on, transactions are not atomic")
	return true
}

func auctionPolicy() auction.Policy {
	policy := auction.DefaultPolicy()
	a := viper.Sub("auction")
	if a == nil {
		return policy
	}
	durations := map[string]*time.Duration{
		"minDuration":        &policy.MinDuration,
		"maxDuration":        &policy.MaxDuration,
		"defaultDuration":    &policy.DefaultDuration,
		"antiSnipeWindow":    &policy.AntiSnipeWindow,
		"antiSnipeExtension": &policy.AntiSnipeExtension,
	}
	for key, dst := range durations {
		if a.IsSet(key) {
			*dst = a.GetDuration(key)
		}
	}
	if a.IsSet("minIncrementPercent") {
		policy.MinIncrementPercent = a.GetInt64("minIncrementPercent")
	}
	if floor, ok := new(big.Int).SetString(a.GetString("minIncrementFloor"), 10); ok {
		policy.MinIncrementFloor = floor
	}
	return policy
}
