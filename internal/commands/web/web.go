// Package web is the interwebs cog: text search over DuckDuckGo's lite
// frontend, paginated into an interactive embed.
package web

import (
	"context"
	"errors"
	"fmt"
	"time"

	"husky/internal/command"
	"husky/internal/discord"
	"husky/internal/session"
)

const perPage = 5

// Cog bundles the web command group around a shared Searcher.
func Cog() *command.Cog {
	searcher := NewSearcher()
	run := func(ctx context.Context, inv *command.Invocation) error {
		return runSearch(ctx, inv, searcher)
	}
	group := command.NewGroup("web", run).
		WithDescription("Reach across the great interwebs").
		Sub(
			command.New("search", run).
				WithAliases("s").
				WithDescription("Search DuckDuckGo").
				WithParams(command.Param{Name: "query", Type: "text", Required: true}),
		)
	return &command.Cog{
		Name:     "Web",
		Emoji:    "🌐",
		Active:   true,
		Commands: []*command.Command{group},
	}
}

func runSearch(ctx context.Context, inv *command.Invocation, searcher *Searcher) error {
	cc := inv.Data.(*discord.CommandContext)
	query := inv.Rest(0)
	if query == "" {
		return errors.New("give me something to search for: `web search <query>`")
	}

	start := time.Now()
	results, err := searcher.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return cc.ReplyText(fmt.Sprintf("No results for %q.", query))
	}

	title := fmt.Sprintf("🌐 Results for `%s` (%d in ~%.2fs)", query, len(results), time.Since(start).Seconds())
	p := session.NewPaginator(cc.Surface, cc.Options(), cc.Log, title, results, perPage,
		func(r Result) string {
			return fmt.Sprintf("**%s**\n> *%s*\n%s", r.Title, r.Snippet, r.URL)
		})
	if err := p.Start(ctx, inv.ChannelID); err != nil {
		return err
	}
	cc.Sessions.Track(p)
	return nil
}
