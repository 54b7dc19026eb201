package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Panel control and prompt ids.
const (
	CtrlDate   = "date"
	CtrlTime   = "time"
	CtrlRemind = "remind"
	CtrlFinish = "finish"
	CtrlCancel = "cancel"
)

// Remind select values, stored verbatim into the draft.
const (
	RemindNoneLabel    = "None"
	RemindChannelLabel = "Mention (this channel)"
	RemindDMLabel      = "Direct Message"
)

// Draft accumulates the form fields of a task being created. Date and Time
// hold normalized display strings; empty means unset.
type Draft struct {
	Text   string
	Date   string
	Time   string
	Remind string
}

// Normalizer turns a free-text field value into its normalized form, or an
// error the panel surfaces to the user.
type Normalizer func(raw string) (string, error)

// Panel is the interactive task-creation form: two prompt-backed fields
// (date, time), a remind-type select, and Finish/Cancel. Finish runs one
// terminal callback with the completed draft.
type Panel struct {
	*core

	draft     Draft
	dateNorm  Normalizer
	timeNorm  Normalizer
	finish    func(ctx context.Context, d Draft) error
	fieldErr  string
	finishErr string
}

// NewPanel builds the form around text, which is fixed at creation. The
// normalizers validate the prompt answers; finish persists the task.
func NewPanel(surface Surface, opts Options, log zerolog.Logger, text string, dateNorm, timeNorm Normalizer, finish func(ctx context.Context, d Draft) error) *Panel {
	p := &Panel{
		draft:    Draft{Text: text, Remind: RemindNoneLabel},
		dateNorm: dateNorm,
		timeNorm: timeNorm,
		finish:   finish,
	}
	p.core = newCore(surface, opts, log.With().Str("session", "panel").Logger(), p)
	return p
}

// Draft returns a copy of the current form state.
func (p *Panel) Draft() Draft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

func orUnset(s string) string {
	if s == "" {
		return "*not set*"
	}
	return s
}

func (p *Panel) view() View {
	body := fmt.Sprintf("**Task:** %s\n**Date:** %s\n**Time:** %s\n**Remind:** %s",
		p.draft.Text, orUnset(p.draft.Date), orUnset(p.draft.Time), p.draft.Remind)
	if p.fieldErr != "" {
		body += "\n\n⚠ " + p.fieldErr
	}
	if p.finishErr != "" {
		body += "\n\n⚠ " + p.finishErr
	}
	done := p.ended()
	return View{
		Title: "New task",
		Body:  body,
		Controls: []Control{
			{ID: CtrlDate, Label: "Date", Emoji: "📅", Disabled: done, Active: p.draft.Date != ""},
			{ID: CtrlTime, Label: "Time", Emoji: "🕑", Disabled: done, Active: p.draft.Time != ""},
			{ID: CtrlFinish, Label: "Save", Emoji: "✅", Disabled: done},
			{ID: CtrlCancel, Label: "Cancel", Emoji: "✖", Disabled: done},
		},
		Selects: []Select{{
			ID:          CtrlRemind,
			Placeholder: "Remind me...",
			Disabled:    done,
			Options: []SelectOption{
				{Label: RemindNoneLabel, Value: RemindNoneLabel, Default: p.draft.Remind == RemindNoneLabel},
				{Label: RemindChannelLabel, Value: RemindChannelLabel, Default: p.draft.Remind == RemindChannelLabel},
				{Label: RemindDMLabel, Value: RemindDMLabel, Default: p.draft.Remind == RemindDMLabel},
			},
		}},
	}
}

func (p *Panel) handle(ctx context.Context, ev Event) (Reaction, bool, bool, error) {
	switch ev.ControlID {
	case CtrlDate:
		if ev.Value == "" {
			// Button press: open the prompt, no render yet.
			return Reaction{Prompt: &Prompt{
				ID:          CtrlDate,
				Title:       "Task date",
				Label:       "When is it due?",
				Placeholder: "tomorrow, 2026-09-01, Oct 20...",
			}}, false, false, nil
		}
		// Prompt answer.
		norm, err := p.dateNorm(ev.Value)
		if err != nil {
			p.fieldErr = fmt.Sprintf("could not read %q as a date", ev.Value)
			return Reaction{}, true, false, nil
		}
		p.draft.Date = norm
		p.fieldErr = ""
		return Reaction{}, true, false, nil

	case CtrlTime:
		if ev.Value == "" {
			return Reaction{Prompt: &Prompt{
				ID:          CtrlTime,
				Title:       "Task time",
				Label:       "What time?",
				Placeholder: "14:30, 9pm, in 2 hours...",
			}}, false, false, nil
		}
		norm, err := p.timeNorm(ev.Value)
		if err != nil {
			p.fieldErr = fmt.Sprintf("could not read %q as a time", ev.Value)
			return Reaction{}, true, false, nil
		}
		p.draft.Time = norm
		p.fieldErr = ""
		return Reaction{}, true, false, nil

	case CtrlRemind:
		switch ev.Value {
		case RemindNoneLabel, RemindChannelLabel, RemindDMLabel:
			p.draft.Remind = ev.Value
			return Reaction{}, true, false, nil
		}
		return Reaction{}, false, false, nil

	case CtrlFinish:
		if err := p.finish(ctx, p.draft); err != nil {
			p.finishErr = err.Error()
			return Reaction{}, true, false, nil
		}
		p.finishErr = ""
		return Reaction{}, true, true, nil

	case CtrlCancel:
		return Reaction{}, true, true, nil
	}
	return Reaction{}, false, false, nil
}
