package discord

import (
	"github.com/bwmarrin/discordgo"

	"husky/internal/session"
)

const embedColor = 0x4d9de0

// renderEmbed maps a session view onto a message embed.
func renderEmbed(v session.View) *discordgo.MessageEmbed {
	color := v.Color
	if color == 0 {
		color = embedColor
	}
	e := &discordgo.MessageEmbed{
		Title:       v.Title,
		Description: v.Body,
		Color:       color,
	}
	if v.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: v.Footer}
	}
	return e
}

// renderComponents maps controls and selects onto component rows. Buttons
// share one row, each select gets its own.
func renderComponents(v session.View) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	if len(v.Controls) > 0 {
		row := discordgo.ActionsRow{}
		for _, c := range v.Controls {
			style := discordgo.SecondaryButton
			if c.Active {
				style = discordgo.PrimaryButton
			}
			btn := discordgo.Button{
				CustomID: c.ID,
				Label:    c.Label,
				Style:    style,
				Disabled: c.Disabled,
			}
			if c.Emoji != "" {
				btn.Emoji = &discordgo.ComponentEmoji{Name: c.Emoji}
			}
			row.Components = append(row.Components, btn)
		}
		rows = append(rows, row)
	}
	for _, sel := range v.Selects {
		opts := make([]discordgo.SelectMenuOption, len(sel.Options))
		for i, o := range sel.Options {
			opts[i] = discordgo.SelectMenuOption{Label: o.Label, Value: o.Value, Default: o.Default}
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    sel.ID,
				Placeholder: sel.Placeholder,
				Options:     opts,
				Disabled:    sel.Disabled,
			},
		}})
	}
	return rows
}
