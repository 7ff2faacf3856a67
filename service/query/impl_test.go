package query

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/database/mongoclient"
	"github.com/x-xyz/marketcore/domain"
)

var (
	mockCTX = ctx.Background()
)

const (
	mockTable = domain.Table("query_test")
	dbName    = "testdb"
)

type dummy struct {
	Id      string `bson:"_id"`
	Name    string `bson:"name"`
	Version int64  `bson:"version"`
}

type querySuite struct {
	suite.Suite
	im *impl
}

func (q *querySuite) SetupTest() {
	client := mongoclient.MustConnectMongoClient(mongoclient.Config{
		URI:                os.Getenv("MONGO_TEST_URI"),
		AuthDBName:         "admin",
		DBName:             dbName,
		SetSafe:            true,
		PoolSizeMultiplier: 1,
	})
	q.im = New(client, false).(*impl)
	q.Require().NoError(q.im.collection(mockTable).Drop(mockCTX))
}

func (q *querySuite) TestInsertShouldFailWithDuplicateKey() {
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{Id: "a", Name: "first"}))
	q.Require().ErrorIs(q.im.Insert(mockCTX, mockTable, dummy{Id: "a", Name: "second"}), ErrDuplicateKey)

	res := dummy{}
	q.Require().NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"_id": "a"}, &res))
	q.Equal("first", res.Name)
	q.ErrorIs(q.im.FindOne(mockCTX, mockTable, bson.M{"_id": "b"}, &res), ErrNotFound)
}

func (q *querySuite) TestReplaceWithVersion() {
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{Id: "a", Name: "v0"}))

	q.Require().NoError(q.im.Replace(mockCTX, mockTable, bson.M{"_id": "a", "version": 0}, dummy{Id: "a", Name: "v1", Version: 1}))
	// a writer still holding version 0 lost the race
	q.Require().ErrorIs(q.im.Replace(mockCTX, mockTable, bson.M{"_id": "a", "version": 0}, dummy{Id: "a", Name: "stale", Version: 1}), ErrNotFound)

	res := dummy{}
	q.Require().NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"_id": "a"}, &res))
	q.Equal(dummy{Id: "a", Name: "v1", Version: 1}, res)
}

func (q *querySuite) TestSearchAndCount() {
	for _, d := range []dummy{{Id: "a", Version: 2}, {Id: "b", Version: 1}, {Id: "c", Version: 3}} {
		q.Require().NoError(q.im.Insert(mockCTX, mockTable, d))
	}
	res := []dummy{}
	q.Require().NoError(q.im.Search(mockCTX, mockTable, 0, 2, "-version", bson.M{}, &res))
	q.Require().Len(res, 2)
	q.Equal("c", res[0].Id)
	q.Equal("a", res[1].Id)

	n, err := q.im.Count(mockCTX, mockTable, bson.M{"version": bson.M{"$gte": 2}})
	q.Require().NoError(err)
	q.Equal(2, n)
}

func (q *querySuite) TestPatch() {
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{Id: "a"}))
	q.Require().NoError(q.im.Patch(mockCTX, mockTable, bson.M{"_id": "a"}, bson.M{"name": "patched"}))
	q.Require().ErrorIs(q.im.Patch(mockCTX, mockTable, bson.M{"_id": "x"}, bson.M{"name": "patched"}), ErrNotFound)

	res := dummy{}
	q.Require().NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"_id": "a"}, &res))
	q.Equal("patched", res.Name)
}

func TestQuerySuite(t *testing.T) {
	if os.Getenv("MONGO_TEST_URI") == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	suite.Run(t, new(querySuite))
}

func TestGetSortOption(t *testing.T) {
	require.Equal(t, bson.D{
		{Key: "endsAt", Value: 1},
		{Key: "createdAt", Value: -1},
	}, getSortOption("endsAt", "", "-createdAt"))
}
