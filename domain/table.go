package domain

import "github.com/x-xyz/marketcore/base/ctx"

type Table string

const (
	TableAccounts      Table = "accounts"
	TableItems         Table = "items"
	TableListings      Table = "listings"
	TableAuctions      Table = "auctions"
	TableBids          Table = "bids"
	TableSettlementTxs Table = "settlement_txs"
	TableEntryClaims   Table = "entry_claims"
	TableInbox         Table = "inbox"
	TableHealthCheck   Table = "healthcheck"
)

// Transactor runs fn as one atomic unit against the store. Reads and
// writes issued through the ctx handed to fn are part of the transaction.
type Transactor interface {
	RunWithTransaction(c ctx.Ctx, fn func(ctx.Ctx) error) error
}
