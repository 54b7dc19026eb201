package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"husky/internal/store"
)

const reminderColor = 0xd62828

// Notifier delivers overdue-task reminders over DM. Tasks carry no channel,
// so the channel-mention variant differs only in framing.
type Notifier struct {
	dg  *discordgo.Session
	log zerolog.Logger
}

func NewNotifier(dg *discordgo.Session, log zerolog.Logger) *Notifier {
	return &Notifier{dg: dg, log: log.With().Str("component", "notifier").Logger()}
}

// KnownUser reports whether the user still exists on Discord. Only a
// confirmed unknown-user answer counts; transient lookup failures keep the
// user's tasks.
func (n *Notifier) KnownUser(ctx context.Context, userID int64) bool {
	_, err := n.dg.User(strconv.FormatInt(userID, 10), discordgo.WithContext(ctx))
	if err == nil {
		return true
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil && rest.Message.Code == discordgo.ErrCodeUnknownUser {
		return false
	}
	n.log.Debug().Err(err).Int64("user", userID).Msg("user lookup failed")
	return true
}

func (n *Notifier) NotifyChannel(ctx context.Context, t store.Task) error {
	return n.send(ctx, t, fmt.Sprintf("<@%d>", t.UserID))
}

func (n *Notifier) NotifyDM(ctx context.Context, t store.Task) error {
	return n.send(ctx, t, "")
}

func (n *Notifier) send(ctx context.Context, t store.Task, content string) error {
	ch, err := n.dg.UserChannelCreate(strconv.FormatInt(t.UserID, 10), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open dm: %w", err)
	}
	embed := &discordgo.MessageEmbed{
		Title:       "⏰ Task Reminder - Overdue!",
		Description: t.Text,
		Color:       reminderColor,
	}
	if due, ok := t.DueAt(time.Now()); ok {
		embed.Fields = []*discordgo.MessageEmbedField{{
			Name:  "Date & Time",
			Value: fmt.Sprintf("%s [<t:%d:R>]", due.Format("January 2, 2006 at 15:04"), due.Unix()),
		}}
	}
	_, err = n.dg.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content: content,
		Embed:   embed,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}
