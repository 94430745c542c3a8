package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dhabedank/burnlog/internal/core"
	"github.com/dhabedank/burnlog/internal/form"
)

type field int

const (
	fieldWorkout field = iota
	fieldDuration
	fieldReps
	fieldPace
	fieldWeight
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldWorkout:  "Workout type",
	fieldDuration: "Duration (min)",
	fieldReps:     "Reps",
	fieldPace:     "Pace (min/km)",
	fieldWeight:   "Body weight",
}

type view int

const (
	viewForm view = iota
	viewHistory
)

// submitDoneMsg carries the result of one background submission.
type submitDoneMsg struct {
	resp *core.EstimateResponse
	err  error
}

// storeDoneMsg reports the result of a delete, clear or unit change.
type storeDoneMsg struct {
	err error
}

// confirmation is a pending yes/no question.
type confirmation struct {
	prompt string
	onYes  func() tea.Cmd
}

// FormModel is the interactive workout logger.
type FormModel struct {
	ctx     context.Context
	ctrl    *form.Controller
	inputs  [fieldCount]textinput.Model
	focus   field
	spinner spinner.Model
	view    view
	cursor  int
	confirm *confirmation
	notice  string
	width   int
}

// NewFormModel creates the logger over a loaded controller.
func NewFormModel(ctx context.Context, ctrl *form.Controller) FormModel {
	var inputs [fieldCount]textinput.Model
	placeholders := [fieldCount]string{
		fieldWorkout:  "Running, Cycling, Push-Ups...",
		fieldDuration: "30",
		fieldReps:     "20",
		fieldPace:     "5:30",
		fieldWeight:   "optional",
	}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 64
		ti.Width = 32
		inputs[i] = ti
	}
	inputs[fieldWorkout].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return FormModel{
		ctx:     ctx,
		ctrl:    ctrl,
		inputs:  inputs,
		focus:   fieldWorkout,
		spinner: s,
	}
}

// Init implements tea.Model.
func (m FormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// visibleFields lists the inputs shown for the current workout type.
func (m FormModel) visibleFields() []field {
	f := m.ctrl.State().Fields()
	visible := []field{fieldWorkout}
	if f.Reps {
		visible = append(visible, fieldReps)
	}
	if f.Duration {
		visible = append(visible, fieldDuration)
	}
	if f.Pace {
		visible = append(visible, fieldPace)
	}
	if f.Weight {
		visible = append(visible, fieldWeight)
	}
	return visible
}

func (m FormModel) formInputs() form.Inputs {
	return form.Inputs{
		WorkoutType: m.inputs[fieldWorkout].Value(),
		Duration:    m.inputs[fieldDuration].Value(),
		Reps:        m.inputs[fieldReps].Value(),
		RunningPace: m.inputs[fieldPace].Value(),
		Weight:      m.inputs[fieldWeight].Value(),
		WeightUnit:  m.ctrl.State().Inputs.WeightUnit,
	}
}

// syncInputs copies the controller's inputs back into the text fields.
func (m *FormModel) syncInputs() {
	in := m.ctrl.State().Inputs
	m.inputs[fieldWorkout].SetValue(in.WorkoutType)
	m.inputs[fieldDuration].SetValue(in.Duration)
	m.inputs[fieldReps].SetValue(in.Reps)
	m.inputs[fieldPace].SetValue(in.RunningPace)
	m.inputs[fieldWeight].SetValue(in.Weight)
}

func (m *FormModel) setFocus(f field) {
	m.inputs[m.focus].Blur()
	m.focus = f
	m.inputs[f].Focus()
}

func (m *FormModel) moveFocus(delta int) {
	visible := m.visibleFields()
	idx := 0
	for i, f := range visible {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(visible)) % len(visible)
	m.setFocus(visible[idx])
}

func (m FormModel) submit() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		resp, err := ctrl.Submit(ctx)
		return submitDoneMsg{resp: resp, err: err}
	}
}

// Update implements tea.Model.
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitDoneMsg:
		m.notice = ""
		if msg.err == nil {
			m.syncInputs()
			m.setFocus(fieldWorkout)
		} else if msg.resp != nil {
			// Logged but not persisted.
			m.syncInputs()
			m.notice = msg.err.Error()
		}
		return m, nil

	case storeDoneMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		if n := len(m.ctrl.State().History); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		// The control surface is disabled while a request is in flight.
		if m.ctrl.State().Pending {
			return m, nil
		}
		if m.view == viewHistory {
			return m.updateHistory(msg)
		}
		return m.updateForm(msg)
	}

	return m, nil
}

func (m FormModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		onYes := m.confirm.onYes
		m.confirm = nil
		return m, onYes()
	case "n", "N", "esc":
		m.confirm = nil
	}
	return m, nil
}

func (m FormModel) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	history := m.ctrl.State().History
	if m.cursor >= len(history) {
		m.cursor = max(len(history)-1, 0)
	}
	switch msg.String() {
	case "esc", "tab", "q":
		m.view = viewForm
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(history)-1 {
			m.cursor++
		}
	case "d", "delete", "backspace":
		if len(history) == 0 {
			return m, nil
		}
		entry := history[m.cursor]
		ctx, ctrl := m.ctx, m.ctrl
		m.confirm = &confirmation{
			prompt: fmt.Sprintf("Delete %s (%d kcal)?", entry.WorkoutType, entry.Calories),
			onYes: func() tea.Cmd {
				return func() tea.Msg {
					return storeDoneMsg{err: ctrl.DeleteEntry(ctx, entry.ID, answeredYes)}
				}
			},
		}
	case "c":
		if len(history) == 0 {
			return m, nil
		}
		ctx, ctrl := m.ctx, m.ctrl
		m.confirm = &confirmation{
			prompt: fmt.Sprintf("Clear all %d workouts?", len(history)),
			onYes: func() tea.Cmd {
				return func() tea.Msg {
					return storeDoneMsg{err: ctrl.ClearHistory(ctx, answeredYes)}
				}
			},
		}
	}
	return m, nil
}

// answeredYes is the ConfirmFunc used once the modal was accepted.
func answeredYes(string) bool { return true }

func (m FormModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewHistory
		m.cursor = 0
		return m, nil
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "ctrl+u":
		if !m.ctrl.State().Fields().Unit {
			return m, nil
		}
		next := core.UnitKilograms
		if m.ctrl.State().Inputs.WeightUnit == core.UnitKilograms {
			next = core.UnitPounds
		}
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg {
			return storeDoneMsg{err: ctrl.SetWeightUnit(ctx, next)}
		}
	case "enter":
		if err := m.ctrl.Edit(m.formInputs()); err != nil {
			return m, nil
		}
		if _, err := m.ctrl.State().Validate(); err != nil {
			// Rejected locally; Submit records the message without a request.
			_, _ = m.ctrl.Submit(m.ctx)
			return m, nil
		}
		m.notice = ""
		return m, tea.Batch(m.submit(), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if err := m.ctrl.Edit(m.formInputs()); err != nil && !errors.Is(err, form.ErrSubmitPending) {
		m.notice = err.Error()
	}
	// Hidden fields cannot keep focus.
	visible := false
	for _, f := range m.visibleFields() {
		if f == m.focus {
			visible = true
		}
	}
	if !visible {
		m.setFocus(fieldWorkout)
	}
	return m, cmd
}

// View implements tea.Model.
func (m FormModel) View() string {
	state := m.ctrl.State()
	var b strings.Builder

	b.WriteString(TitleStyle.Render("burnlog") + "  " + HelpStyle.Render("estimate calories burned") + "\n\n")

	if m.confirm != nil {
		b.WriteString(ModalStyle.Render(m.confirm.prompt + "\n\n" + HelpStyle.Render("y: yes • n: no")))
		b.WriteString("\n")
		return b.String()
	}

	if m.view == viewHistory {
		b.WriteString(m.historyView(state))
		return b.String()
	}

	for _, f := range m.visibleFields() {
		label := fieldLabels[f]
		if f == fieldWeight {
			label = fmt.Sprintf("%s (%s)", label, state.Inputs.WeightUnit)
		}
		style := LabelStyle
		if f == m.focus {
			style = FocusedLabelStyle
		}
		b.WriteString(style.Render(label) + m.inputs[f].View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case state.Pending:
		b.WriteString(m.spinner.View() + " Estimating...\n")
	case state.Error != "":
		b.WriteString(ErrorStyle.Render("✗ "+state.Error) + "\n")
	case state.Result != nil:
		width := 60
		if m.width > 4 && m.width-4 < width {
			width = m.width - 4
		}
		b.WriteString(ResultBoxStyle.Width(width).Render(RenderResult(state.Result)) + "\n")
	}
	if m.notice != "" {
		b.WriteString(WarningStyle.Render(m.notice) + "\n")
	}

	if n := len(state.History); n > 0 {
		b.WriteString("\n" + RenderTotal(state.History) + "\n")
		for i, e := range state.History {
			if i == 3 {
				b.WriteString(HelpStyle.Render(fmt.Sprintf("  ... %d more (esc to browse)", n-3)) + "\n")
				break
			}
			b.WriteString(RenderEntry(e, false) + "\n")
		}
	}

	help := "tab: next field • enter: estimate • esc: history • ctrl+c: quit"
	if state.Fields().Unit {
		help = "tab: next field • ctrl+u: kg/lbs • enter: estimate • esc: history • ctrl+c: quit"
	}
	b.WriteString("\n" + HelpStyle.Render(help))
	return b.String()
}

func (m FormModel) historyView(state form.State) string {
	var b strings.Builder
	b.WriteString(SubtitleStyle.Render("History") + "\n\n")
	if len(state.History) == 0 {
		b.WriteString(HelpStyle.Render("No workouts logged yet.") + "\n")
	}
	for i, e := range state.History {
		b.WriteString(RenderEntry(e, i == m.cursor) + "\n")
	}
	if len(state.History) > 0 {
		b.WriteString("\n" + RenderTotal(state.History) + "\n")
	}
	if m.cursor < len(state.History) {
		if e := state.History[m.cursor]; e.Explanation != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Render(e.Explanation) + "\n")
		}
	}
	if m.notice != "" {
		b.WriteString(WarningStyle.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render("↑/↓: navigate • d: delete • c: clear all • esc: back"))
	return b.String()
}
