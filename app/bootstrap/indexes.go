package bootstrap

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/service/query"
)

// Indexes lists the secondary indexes the repositories query by.
// settlement_txs and entry_claims rely on the unique _id.
func Indexes() []query.Index {
	return []query.Index{
		{Table: domain.TableItems, Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "acquiredAt", Value: -1}}},
		{Table: domain.TableListings, Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Table: domain.TableListings, Keys: bson.D{{Key: "sellerId", Value: 1}, {Key: "status", Value: 1}}},
		{Table: domain.TableListings, Keys: bson.D{{Key: "itemId", Value: 1}}},
		{Table: domain.TableAuctions, Keys: bson.D{{Key: "status", Value: 1}, {Key: "endsAt", Value: 1}}},
		{Table: domain.TableAuctions, Keys: bson.D{{Key: "sellerId", Value: 1}, {Key: "status", Value: 1}}},
		{Table: domain.TableBids, Keys: bson.D{{Key: "auctionId", Value: 1}, {Key: "placedAt", Value: -1}}},
		{Table: domain.TableInbox, Keys: bson.D{{Key: "accountId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Table: domain.TableEntryClaims, Keys: bson.D{{Key: "txRef", Value: 1}}, Unique: true},
	}
}
