package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"husky/internal/session"
)

// surface renders session views through the gateway's REST side. Sessions
// hold it behind the session.Surface interface.
type surface struct {
	dg *discordgo.Session
}

func (s *surface) Send(ctx context.Context, channelID string, v session.View) (string, error) {
	msg, err := s.dg.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embed:      renderEmbed(v),
		Components: renderComponents(v),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (s *surface) Edit(ctx context.Context, channelID, messageID string, v session.View) error {
	embeds := []*discordgo.MessageEmbed{renderEmbed(v)}
	components := renderComponents(v)
	_, err := s.dg.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         messageID,
		Channel:    channelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return err
}

func (s *surface) Delete(ctx context.Context, channelID, messageID string) error {
	return s.dg.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}
