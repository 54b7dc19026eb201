// Package discord adapts the gateway to the bot's command and session
// layers: messages go through the resolver into handlers, component and
// modal interactions go to the session manager.
package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"husky/internal/claims"
	"husky/internal/command"
	"husky/internal/config"
	"husky/internal/session"
	"husky/internal/store"
)

const errorColor = 0xe5004c

// Bot owns the gateway session and fans events into the command and
// session layers.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	log      zerolog.Logger
	registry *command.Registry
	resolver *command.Resolver
	store    *store.Store
	claims   *claims.Validator
	sessions *session.Manager
	mws      []command.Middleware
}

// New builds the bot around an authenticated gateway session.
func New(cfg *config.Config, log zerolog.Logger, registry *command.Registry, st *store.Store, validator *claims.Validator, sessions *session.Manager) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	b := &Bot{
		dg:       dg,
		cfg:      cfg,
		log:      log.With().Str("component", "discord").Logger(),
		registry: registry,
		resolver: command.NewResolver(registry, cfg.Prefix),
		store:    st,
		claims:   validator,
		sessions: sessions,
	}
	b.mws = []command.Middleware{
		command.WithLogger(b.log),
		command.WithCogGate(registry),
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)
	return b, nil
}

// Surface returns the render surface sessions draw through.
func (b *Bot) Surface() session.Surface {
	return &surface{dg: b.dg}
}

// Notifier returns the reminder sender for the sweeper.
func (b *Bot) Notifier() *Notifier {
	return NewNotifier(b.dg, b.log)
}

// Run opens the gateway and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("discord: open gateway: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	b.sessions.StopAll(shutdownCtx)
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("gateway ready")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	res, err := b.resolver.Resolve(m.Content)
	if err != nil {
		b.replyError(m.ChannelID, err)
		return
	}
	if res == nil {
		return
	}

	inv := &command.Invocation{
		Args:      res.Args,
		UserID:    m.Author.ID,
		ChannelID: m.ChannelID,
		Registry:  b.registry,
		Data: &CommandContext{
			Session:  s,
			Message:  m,
			Store:    b.store,
			Claims:   b.claims,
			Sessions: b.sessions,
			Surface:  b.Surface(),
			Timeout:  b.cfg.SessionTimeout,
			Log:      b.log,
		},
	}
	handler := command.Apply(res.Command, b.mws...)
	if err := handler(context.Background(), inv); err != nil {
		b.replyError(m.ChannelID, err)
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		b.onComponent(s, i)
	case discordgo.InteractionModalSubmit:
		b.onModalSubmit(s, i)
	}
}

func (b *Bot) onComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Message == nil {
		return
	}
	data := i.MessageComponentData()
	ev := session.Event{
		UserID:    interactionUserID(i),
		ControlID: data.CustomID,
	}
	if len(data.Values) > 0 {
		ev.Value = data.Values[0]
	}

	ctx := context.Background()
	rc, routed, err := b.sessions.Dispatch(ctx, i.Message.ID, ev)
	if err != nil {
		b.log.Warn().Err(err).Str("message", i.Message.ID).Msg("session event failed")
	}
	if !routed {
		return
	}

	if rc.Prompt != nil {
		b.respondModal(s, i, i.Message.ID, rc.Prompt)
		return
	}
	// The session already edited its message; just settle the interaction.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		b.log.Debug().Err(err).Msg("interaction ack failed")
	}
}

// respondModal opens a single-field text input. The session's message id
// rides along in the custom id so the submit can be routed back.
func (b *Bot) respondModal(s *discordgo.Session, i *discordgo.InteractionCreate, messageID string, p *session.Prompt) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: messageID + ":" + p.ID,
			Title:    p.Title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    p.ID,
						Label:       p.Label,
						Style:       discordgo.TextInputShort,
						Placeholder: p.Placeholder,
						Required:    true,
					},
				}},
			},
		},
	})
	if err != nil {
		b.log.Warn().Err(err).Msg("modal open failed")
	}
}

func (b *Bot) onModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	messageID, controlID, ok := strings.Cut(data.CustomID, ":")
	if !ok {
		return
	}

	value := ""
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range ar.Components {
			if ti, ok := comp.(*discordgo.TextInput); ok && ti.CustomID == controlID {
				value = ti.Value
			}
		}
	}
	if value == "" {
		return
	}

	ctx := context.Background()
	if _, _, err := b.sessions.Dispatch(ctx, messageID, session.Event{
		UserID:    interactionUserID(i),
		ControlID: controlID,
		Value:     value,
	}); err != nil {
		b.log.Warn().Err(err).Str("message", messageID).Msg("modal event failed")
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		b.log.Debug().Err(err).Msg("interaction ack failed")
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// replyError renders a failed invocation back to the channel.
func (b *Bot) replyError(channelID string, err error) {
	_, sendErr := b.dg.ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{
		Description: describeError(err),
		Color:       errorColor,
	})
	if sendErr != nil {
		b.log.Warn().Err(sendErr).Msg("error reply failed")
	}
}

// describeError turns the error taxonomy into user-facing text.
func describeError(err error) string {
	var ambiguous *command.AmbiguousNameError
	if errors.As(err, &ambiguous) {
		names := make([]string, len(ambiguous.Candidates))
		for i, c := range ambiguous.Candidates {
			names[i] = "`" + c.QualifiedName() + "`"
		}
		return fmt.Sprintf("%q could mean %s. Be more specific.", ambiguous.Input, strings.Join(names, " or "))
	}

	var limit *claims.ClaimLimitExceededError
	if errors.As(err, &limit) {
		return fmt.Sprintf("You already hold %d claim(s) in %s. Remove one first.", limit.Limit, limit.Dimension)
	}

	var intersects *claims.ClaimIntersectsError
	if errors.As(err, &intersects) {
		spots := make([]string, len(intersects.Blocking))
		for i, c := range intersects.Blocking {
			spots[i] = fmt.Sprintf("(%d, %d) by <@%d>", c.X, c.Y, c.UserID)
		}
		return "That spot is too close to existing claims: " + strings.Join(spots, ", ")
	}

	if errors.Is(err, store.ErrDuplicateTask) {
		return "You already have that exact task."
	}

	return "Something went wrong: " + err.Error()
}
