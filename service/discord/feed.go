package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain/notification"
)

type Config struct {
	BotKey    string
	ChannelId string
}

type sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

type saleFeed struct {
	channelId string
	session   sender
}

// NewSaleFeed posts completed sales to a discord channel. Other facts are ignored.
func NewSaleFeed(cfg Config) (notification.Publisher, error) {
	session, err := discordgo.New(fmt.Sprintf("Bot %s", cfg.BotKey))
	if err != nil {
		return nil, err
	}
	return &saleFeed{channelId: cfg.ChannelId, session: session}, nil
}

func (f *saleFeed) Publish(c ctx.Ctx, fact notification.Fact) error {
	msg := saleEmbed(fact)
	if msg == nil {
		return nil
	}
	if _, err := f.session.ChannelMessageSendEmbed(f.channelId, msg); err != nil {
		c.WithField("err", err).Error("ChannelMessageSendEmbed failed")
		return err
	}
	return nil
}

func saleEmbed(fact notification.Fact) *discordgo.MessageEmbed {
	var title string
	switch fact.Kind {
	case notification.KindSold:
		title = "Auction closed!"
	case notification.KindListingSold:
		title = "Item sold!"
	default:
		return nil
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("%v", fact.Payload["itemId"]),
		Timestamp:   fact.OccurredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Seller", Value: string(fact.AccountId)},
			{Name: "Price", Value: fmt.Sprintf("%v", fact.Payload["amount"])},
			{Name: "Tx", Value: fmt.Sprintf("%v", fact.Payload["txRef"])},
		},
	}
}
