package bootstrap

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain/auction"
)

func TestAuctionPolicy(t *testing.T) {
	req := require.New(t)
	defer viper.Reset()

	viper.Reset()
	req.Equal(auction.DefaultPolicy(), auctionPolicy())

	viper.Set("auction.antiSnipeWindow", "5m")
	viper.Set("auction.minIncrementPercent", 5)
	viper.Set("auction.minIncrementFloor", "1000")
	p := auctionPolicy()
	req.Equal(5*time.Minute, p.AntiSnipeWindow)
	req.Equal(3*time.Minute, p.AntiSnipeExtension)
	req.Equal(int64(5), p.MinIncrementPercent)
	req.Equal("1000", p.MinIncrementFloor.String())
	req.Equal(48*time.Hour, p.DefaultDuration)
}

func TestIndexes(t *testing.T) {
	req := require.New(t)
	seen := map[string]bool{}
	for _, idx := range Indexes() {
		req.NotEmpty(idx.Keys)
		seen[string(idx.Table)] = true
	}
	for _, table := range []string{"items", "listings", "auctions", "bids", "inbox"} {
		req.True(seen[table], table)
	}
}

func TestCheckIndexNeedsDebug(t *testing.T) {
	req := require.New(t)
	defer viper.Reset()
	c := ctx.Background()

	viper.Reset()
	req.False(checkIndex(c))

	viper.Set("mongo.checkIndex", true)
	viper.Set("debug", false)
	req.False(checkIndex(c))

	viper.Set("debug", true)
	req.True(checkIndex(c))
}
