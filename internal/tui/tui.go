// Package tui is the terminal rendition of the single-page client.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/woozymasta/gmexport/internal/app"
	"github.com/woozymasta/gmexport/internal/format"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

type exportDoneMsg struct {
	location string
	err      error
}

// Model is the bubbletea model over an App.
type Model struct {
	ctx     context.Context
	app     *app.App
	input   textinput.Model
	spinner spinner.Model
	pending bool
}

// New returns a model showing the current state of a.
func New(ctx context.Context, a *app.App) Model {
	in := textinput.New()
	in.Placeholder = "Paste your Google Maps link here"
	in.Prompt = "› "
	in.Width = 60
	in.SetValue(a.URL())
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{ctx: ctx, app: a, input: in, spinner: sp}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) locked() bool {
	return m.pending || m.app.Busy()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.app.Banner().Visible() {
				m.app.Dismiss()
				return m, nil
			}
			return m, tea.Quit

		case "tab", "shift+tab":
			if m.locked() {
				return m, nil
			}
			next := m.app.Format().Next()
			if msg.String() == "shift+tab" {
				next = m.app.Format().Prev()
			}
			if err := m.app.SelectFormat(next); err != nil {
				log.Warn().Err(err).Str("format", string(next)).Msg("Failed to store export format")
			}
			return m, nil

		case "enter":
			if m.locked() || strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			m.pending = true
			return m, tea.Batch(m.spinner.Tick, m.export())
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.app.SetURL(m.input.Value())
		return m, cmd

	case exportDoneMsg:
		// a rejected duplicate does not end the running attempt
		if errors.Is(msg.err, app.ErrBusy) {
			return m, nil
		}
		m.pending = false
		return m, nil

	case spinner.TickMsg:
		if !m.locked() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) export() tea.Cmd {
	a, ctx := m.app, m.ctx
	return func() tea.Msg {
		location, err := a.Export(ctx)
		return exportDoneMsg{location: location, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Google Maps Export Tool"))
	b.WriteString("\n")
	b.WriteString(textStyle.Render("Convert Google Maps location links to your preferred format."))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Google Maps URL"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	selected := m.app.Format()
	for _, f := range format.All() {
		if f == selected {
			b.WriteString(selectedStyle.Render(f.Label()))
		} else {
			b.WriteString(formatStyle.Render(f.Label()))
		}
	}
	b.WriteString("  ")

	switch {
	case m.locked():
		b.WriteString(disabledButtonStyle.Render(m.spinner.View() + " Exporting"))
	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(disabledButtonStyle.Render("Export"))
	default:
		b.WriteString(buttonStyle.Render("Export"))
	}
	b.WriteString("\n")

	if banner := m.app.Banner(); banner.Visible() {
		b.WriteString("\n")
		if banner.Kind == app.BannerSuccess {
			b.WriteString(successStyle.Render("✓ " + banner.Message))
		} else {
			b.WriteString(errorStyle.Render("✗ " + banner.Message))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter export • tab/shift+tab format • esc dismiss/quit • ctrl+c quit"))
	b.WriteString("\n")

	return b.String()
}

// Run starts the full screen client and blocks until the user quits.
func Run(ctx context.Context, a *app.App) error {
	_, err := tea.NewProgram(New(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
