package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"husky/internal/claims"
	"husky/internal/session"
	"husky/internal/store"
)

// CommandContext travels as Invocation.Data into every handler: the gateway
// session, the originating message, and the bot's shared dependencies.
type CommandContext struct {
	Session  *discordgo.Session
	Message  *discordgo.MessageCreate
	Store    *store.Store
	Claims   *claims.Validator
	Sessions *session.Manager
	Surface  session.Surface
	Timeout  time.Duration
	Log      zerolog.Logger
}

// Reply sends an embed back to the invoking channel.
func (c *CommandContext) Reply(embed *discordgo.MessageEmbed) error {
	_, err := c.Session.ChannelMessageSendEmbed(c.Message.ChannelID, embed)
	return err
}

// ReplyText sends a short plain-text reply.
func (c *CommandContext) ReplyText(text string) error {
	_, err := c.Session.ChannelMessageSend(c.Message.ChannelID, text)
	return err
}

// Options builds the session options for this invocation: configured
// timeout, events gated to the invoker.
func (c *CommandContext) Options() session.Options {
	invoker := c.Message.Author.ID
	return session.Options{
		Timeout:   c.Timeout,
		AllowFunc: func(userID string) bool { return userID == invoker },
	}
}
