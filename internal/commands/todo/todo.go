// Package todo is the secretary cog: the task list, the interactive
// task-creation panel, and task removal.
package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"husky/internal/command"
	"husky/internal/discord"
	"husky/internal/session"
	"husky/internal/store"
	"husky/internal/when"
)

const perPage = 5

// Cog bundles the todo command group.
func Cog() *command.Cog {
	group := command.NewGroup("todo", runBare).
		WithDescription("Keep a todo list").
		Sub(
			command.New("add", runAdd).
				WithAliases("a").
				WithDescription("Add a task").
				WithParams(command.Param{Name: "task", Type: "text", Required: true}),
			command.New("list", runList).
				WithAliases("l").
				WithDescription("List your tasks").
				WithParams(command.Param{Name: "overdue", Type: "flag"}),
			command.New("remove", runRemove).
				WithDescription("Remove a task by number").
				WithParams(command.Param{Name: "id", Type: "int", Required: true}),
		)
	return &command.Cog{
		Name:        "Secretary",
		Description: "Helps with mundane tasks",
		Emoji:       "💼",
		Active:      true,
		Commands:    []*command.Command{group},
	}
}

// runBare handles a bare "todo": trailing text adds, nothing lists.
func runBare(ctx context.Context, inv *command.Invocation) error {
	if inv.Rest(0) == "" {
		return runList(ctx, inv)
	}
	return runAdd(ctx, inv)
}

func runAdd(ctx context.Context, inv *command.Invocation) error {
	cc := inv.Data.(*discord.CommandContext)
	text := inv.Rest(0)
	if text == "" {
		return errors.New("tell me what the task is: `todo add <task>`")
	}
	userID, err := strconv.ParseInt(inv.UserID, 10, 64)
	if err != nil {
		return command.ErrInternal
	}

	dateNorm := func(raw string) (string, error) {
		d, err := when.Date(raw, time.Now())
		if err != nil {
			return "", err
		}
		if d.Before(today()) {
			return "", errors.New("a task cannot be due in the past")
		}
		return d.Format("2006-01-02"), nil
	}
	timeNorm := func(raw string) (string, error) {
		c, err := when.Clock(raw, time.Now())
		if err != nil {
			return "", err
		}
		return c.Format("15:04:05"), nil
	}

	panel := session.NewPanel(cc.Surface, cc.Options(), cc.Log, text, dateNorm, timeNorm,
		func(ctx context.Context, d session.Draft) error {
			return saveDraft(ctx, cc.Store, userID, d)
		})
	if err := panel.Start(ctx, inv.ChannelID); err != nil {
		return err
	}
	cc.Sessions.Track(panel)
	return nil
}

// saveDraft validates the completed form and persists the task.
func saveDraft(ctx context.Context, st *store.Store, userID int64, d session.Draft) error {
	task := store.Task{UserID: userID, Text: d.Text}

	if d.Date != "" {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return fmt.Errorf("bad date %q", d.Date)
		}
		task.Date = &date
	}
	if d.Time != "" {
		tod, err := store.ParseTimeOfDay(d.Time)
		if err != nil {
			return fmt.Errorf("bad time %q", d.Time)
		}
		task.Time = &tod
	}
	// A time with no date means today, and today's past is rejected.
	if task.Date == nil && task.Time != nil {
		now := time.Now()
		if !task.Time.On(now).After(now) {
			return errors.New("you can't set a task to be in the past")
		}
	}

	remind, err := store.ParseRemindType(d.Remind)
	if err != nil {
		return err
	}
	task.Remind = remind

	if _, err := st.CreateTask(ctx, task); err != nil {
		if errors.Is(err, store.ErrDuplicateTask) {
			return errors.New("you already have that exact task")
		}
		return err
	}
	return nil
}

func runList(ctx context.Context, inv *command.Invocation) error {
	cc := inv.Data.(*discord.CommandContext)
	userID, err := strconv.ParseInt(inv.UserID, 10, 64)
	if err != nil {
		return command.ErrInternal
	}

	overdueOnly := inv.Arg(0) == "overdue"
	var tasks []store.Task
	if overdueOnly {
		tasks, err = cc.Store.UserOverdueTasks(ctx, userID, time.Now())
	} else {
		tasks, err = cc.Store.UserTasks(ctx, userID)
	}
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		title := "✅ You have no tasks"
		if overdueOnly {
			title = "✅ You have no overdue tasks"
		}
		return cc.Reply(&discordgo.MessageEmbed{Title: title})
	}

	now := time.Now()
	sort.SliceStable(tasks, func(i, j int) bool {
		di, _ := tasks[i].DueAt(now)
		dj, _ := tasks[j].DueAt(now)
		return di.Before(dj)
	})

	p := session.NewPaginator(cc.Surface, cc.Options(), cc.Log, "📝 Your Tasks", tasks, perPage, taskLine)
	if err := p.Start(ctx, inv.ChannelID); err != nil {
		return err
	}
	cc.Sessions.Track(p)
	return nil
}

// taskLine renders one task with its due moment, mirroring the reminder
// embeds.
func taskLine(t store.Task) string {
	due, ok := t.DueAt(time.Now())
	dueDesc := "no due date"
	switch {
	case !ok:
		// keep default
	case t.Date == nil:
		dueDesc = due.Format("3:04 PM")
	case t.Time == nil:
		dueDesc = fmt.Sprintf("%s [<t:%d:R>]", due.Format("January 2"), due.Unix())
	default:
		dueDesc = fmt.Sprintf("%s at %s [<t:%d:R>]", due.Format("January 2, 2006"), due.Format("3:04 PM"), due.Unix())
	}
	return fmt.Sprintf("`%d.` **%s**\n> Due: %s", t.ID, t.Text, dueDesc)
}

func runRemove(ctx context.Context, inv *command.Invocation) error {
	cc := inv.Data.(*discord.CommandContext)
	id, err := strconv.ParseInt(inv.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("%q is not a task number", inv.Arg(0))
	}
	userID, err := strconv.ParseInt(inv.UserID, 10, 64)
	if err != nil {
		return command.ErrInternal
	}

	task, err := ownedTask(ctx, cc.Store, userID, id)
	if errors.Is(err, errTaskNotFound) {
		return cc.ReplyText(fmt.Sprintf("No task `%d` on your list.", id))
	}
	if err != nil {
		return err
	}
	if err := cc.Store.DeleteTask(ctx, id); err != nil {
		return err
	}
	return cc.ReplyText(fmt.Sprintf("Task `%d` removed: %s", id, task.Text))
}

var errTaskNotFound = errors.New("task not found")

// ownedTask looks up a task and checks it belongs to the user. Missing and
// foreign tasks both come back as errTaskNotFound so the reply never leaks
// other users' task ids; storage failures pass through untouched.
func ownedTask(ctx context.Context, st *store.Store, userID, id int64) (store.Task, error) {
	task, err := st.Task(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Task{}, errTaskNotFound
	}
	if err != nil {
		return store.Task{}, err
	}
	if task.UserID != userID {
		return store.Task{}, errTaskNotFound
	}
	return task, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
