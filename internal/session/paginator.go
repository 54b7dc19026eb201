package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Paginator control ids, also the event ids the adapter routes back.
const (
	CtrlFirst = "first"
	CtrlBack  = "back"
	CtrlStop  = "stop"
	CtrlNext  = "next"
	CtrlLast  = "last"
)

// Paginator pages a list of items five-or-so at a time behind a row of
// navigation buttons. The item type is opaque; the caller supplies a line
// renderer.
type Paginator[T any] struct {
	*core

	title   string
	items   []T
	perPage int
	line    func(T) string
	page    int
}

// NewPaginator builds a paginator over items. perPage below 1 is treated
// as 1.
func NewPaginator[T any](surface Surface, opts Options, log zerolog.Logger, title string, items []T, perPage int, line func(T) string) *Paginator[T] {
	if perPage < 1 {
		perPage = 1
	}
	p := &Paginator[T]{
		title:   title,
		items:   items,
		perPage: perPage,
		line:    line,
	}
	p.core = newCore(surface, opts, log.With().Str("session", "paginator").Logger(), p)
	return p
}

// PageCount is ceil(len(items)/perPage), never less than 1. An empty list
// still renders one (empty) page.
func (p *Paginator[T]) PageCount() int {
	n := (len(p.items) + p.perPage - 1) / p.perPage
	if n < 1 {
		n = 1
	}
	return n
}

// Page returns the current zero-based page.
func (p *Paginator[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Paginator[T]) view() View {
	last := p.PageCount() - 1
	start := p.page * p.perPage
	end := start + p.perPage
	if end > len(p.items) {
		end = len(p.items)
	}

	body := ""
	if start >= len(p.items) {
		body = "*nothing here*"
	} else {
		for _, it := range p.items[start:end] {
			body += p.line(it) + "\n"
		}
	}

	atFirst := p.page == 0
	atLast := p.page == last
	done := p.ended()
	return View{
		Title:  p.title,
		Body:   body,
		Footer: fmt.Sprintf("page %d of %d", p.page+1, last+1),
		Controls: []Control{
			{ID: CtrlFirst, Emoji: "⏮", Disabled: done || atFirst},
			{ID: CtrlBack, Emoji: "◀", Disabled: done || atFirst},
			{ID: CtrlStop, Emoji: "⏹", Disabled: done},
			{ID: CtrlNext, Emoji: "▶", Disabled: done || atLast},
			{ID: CtrlLast, Emoji: "⏭", Disabled: done || atLast},
		},
	}
}

func (p *Paginator[T]) handle(_ context.Context, ev Event) (Reaction, bool, bool, error) {
	last := p.PageCount() - 1
	switch ev.ControlID {
	case CtrlFirst:
		p.page = 0
	case CtrlBack:
		p.page--
	case CtrlNext:
		p.page++
	case CtrlLast:
		p.page = last
	case CtrlStop:
		return Reaction{}, true, true, nil
	default:
		return Reaction{}, false, false, nil
	}
	if p.page < 0 {
		p.page = 0
	}
	if p.page > last {
		p.page = last
	}
	return Reaction{}, true, false, nil
}
