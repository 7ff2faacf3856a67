package discord

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain/notification"
)

type fakeSession struct {
	sent []*discordgo.MessageEmbed
	err  error
}

func (s *fakeSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, embed)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func TestSaleFeed(t *testing.T) {
	req := require.New(t)
	session := &fakeSession{}
	feed := &saleFeed{channelId: "c1", session: session}
	fact := notification.Fact{
		AccountId:  "seller",
		Kind:       notification.KindListingSold,
		SubjectId:  "l1",
		Payload:    map[string]interface{}{"itemId": "i1", "amount": "50", "txRef": "0xabc"},
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	req.NoError(feed.Publish(ctx.Background(), fact))
	req.Len(session.sent, 1)
	req.Equal("Item sold!", session.sent[0].Title)
	req.Equal("i1", session.sent[0].Description)
	req.Equal("50", session.sent[0].Fields[1].Value)

	// only sales reach the channel
	fact.Kind = notification.KindOutbid
	req.NoError(feed.Publish(ctx.Background(), fact))
	req.Len(session.sent, 1)

	session.err = errors.New("rate limited")
	fact.Kind = notification.KindSold
	req.ErrorIs(feed.Publish(ctx.Background(), fact), session.err)
}
