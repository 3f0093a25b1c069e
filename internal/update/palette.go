package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmdv/remindd/internal/commands"
	"github.com/mmdv/remindd/internal/reminder"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	ctx := context.Background()
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if err := m.addTaskFromArgs(a); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added task: %s", a.Title)}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			task, ok := m.findTask(a.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task matching %q", a.Target)}
			}
			if _, err := m.Coordinator.ToggleComplete(ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("toggled: %s", task.Title)}, nil
		},
		Delete: func(a commands.DeleteArgs) (commands.Result, error) {
			task, ok := m.findTask(a.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task matching %q", a.Target)}
			}
			if err := m.Coordinator.DeleteTask(ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted: %s", task.Title)}, nil
		},
		Birthday: func(a commands.BirthdayArgs) (commands.Result, error) {
			_, err := m.Coordinator.AddBirthday(ctx, reminder.AddBirthdayParams{
				Name:      a.Name,
				BirthDate: a.BirthDate,
				Phone:     a.Phone,
			})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added birthday: %s", a.Name)}, nil
		},
		Greet: func(a commands.GreetArgs) (commands.Result, error) {
			bd, ok := m.findBirthday(a.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no birthday matching %q", a.Target)}
			}
			if _, err := m.Coordinator.MarkGreetingSent(ctx, bd.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("greeting recorded for %s", bd.Name)}, nil
		},
		Clear: func(a commands.ClearArgs) (commands.Result, error) {
			switch a.Subject {
			case "archive":
				n, err := m.Coordinator.ClearArchive(ctx)
				if err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("purged %d archived task(s)", n)}, nil
			default:
				if err := m.Coordinator.Registry().Clear(ctx); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "notification history cleared"}, nil
			}
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m, m.refreshAllCmd()
}
