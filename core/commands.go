package core

import (
	"cmp"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// Command is a host action that key bindings dispatch to by ID.
type Command struct {
	ID          string
	Name        string
	Description string
	Execute     func(m *Model) tea.Cmd
	Disabled    func(m *Model) (bool, string)
}

type CommandResult struct {
	CommandID string
	Name      string
	Desc      string
	Disabled  bool
	Reason    string
}

type CommandRegistry struct {
	commands map[string]Command
}

func NewCommandRegistry(cmds []Command) *CommandRegistry {
	reg := &CommandRegistry{commands: map[string]Command{}}
	for _, c := range cmds {
		reg.Register(c)
	}
	return reg
}

func (r *CommandRegistry) Register(c Command) {
	if c.ID == "" {
		return
	}
	r.commands[c.ID] = c
}

func (r *CommandRegistry) Has(id string) bool {
	_, ok := r.commands[id]
	return ok
}

// List returns every command, enabled ones first, each group by name.
func (r *CommandRegistry) List(m *Model) []CommandResult {
	results := make([]CommandResult, 0, len(r.commands))
	for id, c := range r.commands {
		ok, reason := r.Available(id, m)
		results = append(results, CommandResult{
			CommandID: id,
			Name:      c.Name,
			Desc:      c.Description,
			Disabled:  !ok,
			Reason:    reason,
		})
	}
	slices.SortFunc(results, func(a, b CommandResult) int {
		if a.Disabled != b.Disabled {
			if !a.Disabled {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return results
}

// Available reports whether id can run now, with the reason when it can't.
func (r *CommandRegistry) Available(id string, m *Model) (bool, string) {
	c, ok := r.commands[id]
	if !ok {
		return false, "Unknown command: " + id
	}
	if c.Disabled == nil {
		return true, ""
	}
	disabled, reason := c.Disabled(m)
	if disabled && reason == "" {
		reason = c.Name + " is unavailable"
	}
	return !disabled, reason
}

// Execute runs id. A disabled command only sets the status line.
func (r *CommandRegistry) Execute(id string, m *Model) tea.Cmd {
	ok, reason := r.Available(id, m)
	if !ok {
		m.SetStatus(reason)
		return nil
	}
	if c := r.commands[id]; c.Execute != nil {
		return c.Execute(m)
	}
	return nil
}

// DefaultCommands are the host actions bound by DefaultKeyBindings.
func DefaultCommands() []Command {
	return []Command{
		{
			ID:   "quit",
			Name: "Quit",
			Execute: func(m *Model) tea.Cmd {
				m.quitting = true
				return tea.Quit
			},
		},
		{
			ID:          "push",
			Name:        "Open screen",
			Description: "Push the next screen onto the stack",
			Execute:     func(m *Model) tea.Cmd { return m.pushNext() },
			Disabled: func(m *Model) (bool, string) {
				if m.newScreen == nil {
					return true, "Nothing to open"
				}
				if top := m.screens.Top(); top != nil && sessionActive(top.swipe) {
					return true, "Swipe in progress"
				}
				return false, ""
			},
		},
		{
			ID:          "pop",
			Name:        "Back",
			Description: "Close the top screen",
			Execute: func(m *Model) tea.Cmd {
				m.PopScreen()
				return nil
			},
			Disabled: func(m *Model) (bool, string) {
				return m.screens.Len() <= 1, "Already at the root screen"
			},
		},
		{
			ID:          "palette",
			Name:        "Commands",
			Description: "Search and run a command",
			Execute: func(m *Model) tea.Cmd {
				if err := m.pushIfIdle(newPaletteScreen(m.paletteItems())); err != nil {
					return ErrorCmd(err)
				}
				return nil
			},
		},
		{
			ID:          "cycle-edges",
			Name:        "Cycle edges",
			Description: "Switch the swipe edge between left, right and both",
			Execute:     func(m *Model) tea.Cmd { return m.cycleEdges() },
		},
		{
			ID:          "toggle-swipe",
			Name:        "Toggle swipe",
			Description: "Enable or disable edge swiping",
			Execute: func(m *Model) tea.Cmd {
				cfg := m.gesture
				cfg.Enabled = !cfg.Enabled
				if err := m.ApplyGesture(cfg); err != nil {
					m.SetError(err)
					return nil
				}
				if cfg.Enabled {
					m.SetStatus("Swipe enabled")
				} else {
					m.SetStatus("Swipe disabled")
				}
				return nil
			},
		},
	}
}
