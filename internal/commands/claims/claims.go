// Package claims is the world-map cog: recording, removing and listing
// spatial claims.
package claims

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"husky/internal/command"
	"husky/internal/discord"
	"husky/internal/session"
	"husky/internal/store"
)

const perPage = 5

// Cog bundles the claims command group.
func Cog() *command.Cog {
	group := command.NewGroup("claims", runList).
		WithDescription("Manage land claims").
		Sub(
			command.New("create", runCreate).
				WithDescription("Claim a spot on the map").
				WithParams(
					command.Param{Name: "x", Type: "int", Required: true},
					command.Param{Name: "y", Type: "int", Required: true},
					command.Param{Name: "dimension", Type: "string", Default: "overworld"},
				),
			command.New("remove", runRemove).
				WithDescription("Remove your claim").
				WithParams(
					command.Param{Name: "x", Type: "int", Required: true},
					command.Param{Name: "y", Type: "int", Required: true},
					command.Param{Name: "dimension", Type: "string", Default: "overworld"},
				),
			command.New("list", runList).
				WithDescription("List all claims"),
		)
	return &command.Cog{
		Name:     "Claims",
		Emoji:    "🗺",
		Active:   true,
		Commands: []*command.Command{group},
	}
}

// parseSpot reads the common <x> <y> [dimension] argument shape.
func parseSpot(inv *command.Invocation) (x, y int, dim store.Dimension, err error) {
	x, err = strconv.Atoi(inv.Arg(0))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%q is not a coordinate", inv.Arg(0))
	}
	y, err = strconv.Atoi(inv.Arg(1))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%q is not a coordinate", inv.Arg(1))
	}
	dim = store.Overworld
	if d := inv.Arg(2); d != "" {
		dim, err = store.ParseDimension(d)
		if err != nil {
			return 0, 0, 0, err
		}
	}
	return x, y, dim, nil
}

func runCreate(ctx context.Context, inv *command.Invocation) error {
	cc := inv.Data.(*discord.CommandContext)
	x, y, dim, err := parseSpot(inv)
	if err != nil {
		return err
	}
	userID, err := strconv.ParseInt(inv.UserID, 10, 64)
	if err != nil {
		return command.ErrInternal
	}

	claim, err := cc.Claims.AttemptClaim(ctx, userID, x, y, dim)
	if err != nil {
		return err
	}
	return cc.Reply(&discordgo.MessageEmbed{
		Title:       "🗺 Claim recorded",
		Description: fmt.Sprintf("(%d, %d) in %s is yours.", claim.X, claim.Y, claim.Dimension),
		Color:       0x35b06f,
	})
}

func runRemove(ctx context.Context, inv *command.Invocation) error {
	cc := inv.Data.(*discord.CommandContext)
	x, y, dim, err := parseSpot(inv)
	if err != nil {
		return err
	}
	userID, err := strconv.ParseInt(inv.UserID, 10, 64)
	if err != nil {
		return command.ErrInternal
	}

	// Only the owner may free a spot.
	owned, err := cc.Claims.Claims(ctx, store.ClaimFilter{UserID: &userID, X: &x, Y: &y, Dimension: &dim})
	if err != nil {
		return err
	}
	if len(owned) == 0 {
		return cc.ReplyText(fmt.Sprintf("You have no claim at (%d, %d) in %s.", x, y, dim))
	}
	if err := cc.Claims.RemoveClaim(ctx, x, y, dim); err != nil {
		return err
	}
	return cc.ReplyText(fmt.Sprintf("Claim at (%d, %d) in %s removed.", x, y, dim))
}

func runList(ctx context.Context, inv *command.Invocation) error {
	cc := inv.Data.(*discord.CommandContext)
	all, err := cc.Claims.Claims(ctx, store.ClaimFilter{})
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return cc.Reply(&discordgo.MessageEmbed{Title: "🗺 No claims yet"})
	}

	p := session.NewPaginator(cc.Surface, cc.Options(), cc.Log, "🗺 Claims", all, perPage,
		func(c store.Claim) string {
			return fmt.Sprintf("`(%d, %d)` in **%s** by <@%d>", c.X, c.Y, c.Dimension, c.UserID)
		})
	if err := p.Start(ctx, inv.ChannelID); err != nil {
		return err
	}
	cc.Sessions.Track(p)
	return nil
}
