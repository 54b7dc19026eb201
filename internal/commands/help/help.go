// Package help renders command and cog documentation from the registry,
// with fuzzy suggestions for near-miss names.
package help

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sahilm/fuzzy"

	"husky/internal/command"
	"husky/internal/discord"
)

const (
	helpColor      = 0x4d9de0
	maxSuggestions = 5
)

// Cog bundles the help command. The cog is hidden so it does not list
// itself.
func Cog() *command.Cog {
	return &command.Cog{
		Name:   "Help",
		Emoji:  "📚",
		Hidden: true,
		Active: true,
		Commands: []*command.Command{
			command.New("help", runHelp).
				WithDescription("Show command help").
				WithParams(command.Param{Name: "command", Type: "text"}),
		},
	}
}

func runHelp(ctx context.Context, inv *command.Invocation) error {
	cc := inv.Data.(*discord.CommandContext)
	name := inv.Rest(0)
	if name == "" {
		return cc.Reply(overviewEmbed(inv.Registry))
	}

	if cmd := inv.Registry.Lookup(name); cmd != nil {
		return cc.Reply(commandEmbed(cmd))
	}

	suggestions := suggest(inv.Registry, name)
	if len(suggestions) == 0 {
		return cc.ReplyText(fmt.Sprintf("No command called %q.", name))
	}
	for i, s := range suggestions {
		suggestions[i] = "`" + s + "`"
	}
	return cc.ReplyText(fmt.Sprintf("No command called %q. Did you mean %s?", name, strings.Join(suggestions, ", ")))
}

// overviewEmbed lists every visible cog with its visible commands.
func overviewEmbed(reg *command.Registry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📚 Commands",
		Color: helpColor,
	}
	for _, cog := range reg.Cogs() {
		if cog.Hidden {
			continue
		}
		var names []string
		for _, cmd := range cog.Commands {
			if cmd.Hidden {
				continue
			}
			names = append(names, "`"+cmd.Name+"`")
			for _, child := range cmd.Children() {
				if !child.Hidden {
					names = append(names, "`"+child.QualifiedName()+"`")
				}
			}
		}
		if len(names) == 0 {
			continue
		}
		title := cog.Name
		if cog.Emoji != "" {
			title = cog.Emoji + " " + cog.Name
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  title,
			Value: strings.Join(names, " "),
		})
	}
	return embed
}

// commandEmbed renders one command or group in detail.
func commandEmbed(cmd *command.Command) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📚 " + cmd.QualifiedName(),
		Description: cmd.Description,
		Color:       helpColor,
	}
	if usage := usageLine(cmd); usage != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Usage", Value: "`" + usage + "`"})
	}
	if len(cmd.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Aliases",
			Value: "`" + strings.Join(cmd.Aliases, "` `") + "`",
		})
	}
	if cmd.IsGroup() {
		var subs []string
		for _, child := range cmd.Children() {
			if !child.Hidden {
				subs = append(subs, fmt.Sprintf("`%s` - %s", child.Name, child.Description))
			}
		}
		if len(subs) > 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Subcommands",
				Value: strings.Join(subs, "\n"),
			})
		}
	}
	return embed
}

func usageLine(cmd *command.Command) string {
	parts := []string{cmd.QualifiedName()}
	for _, p := range cmd.Params {
		if p.Required {
			parts = append(parts, "<"+p.Name+">")
		} else {
			parts = append(parts, "["+p.Name+"]")
		}
	}
	if len(parts) == 1 && !cmd.IsGroup() {
		return parts[0]
	}
	return strings.Join(parts, " ")
}

// suggest fuzzy-ranks all visible qualified names against the input.
func suggest(reg *command.Registry, input string) []string {
	var names []string
	reg.Walk(func(cmd *command.Command) bool {
		if !cmd.Hidden {
			names = append(names, cmd.QualifiedName())
		}
		return true
	})

	matches := fuzzy.Find(input, names)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
