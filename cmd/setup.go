package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dhabedank/burnlog/internal/config"
	"github.com/dhabedank/burnlog/internal/core"
	"github.com/dhabedank/burnlog/internal/llm"
	"github.com/dhabedank/burnlog/internal/storage"
	"github.com/dhabedank/burnlog/internal/tui"
)

var resetConfig bool

// SetupCmd represents the setup command.
var SetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long: `Configure burnlog with an interactive wizard.

The wizard asks for:
- Model: the Claude model the gateway uses for estimates
- Weight unit: kg or lbs for body weight on running workouts

The model is saved to ~/.burnlog.yaml, the weight unit to your history
database.`,
	RunE: runSetup,
}

func init() {
	addConfigFlag(SetupCmd)
	SetupCmd.Flags().BoolVar(&resetConfig, "reset", false, "Reset configuration to defaults")
}

func runSetup(cmd *cobra.Command, args []string) error {
	configPath := config.HomePath()

	if resetConfig {
		if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove config: %w", err)
		}
		fmt.Println(tui.SuccessStyle.Render("✓") + " Configuration reset to defaults")
		fmt.Printf("  Removed: %s\n", configPath)
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newSetupModel(llm.Models()))
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	result := m.(setupModel)
	if result.cancelled {
		fmt.Println("Setup cancelled")
		return nil
	}

	if err := config.SaveModel(configPath, result.model); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	kv, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer kv.Close()
	store := storage.NewHistoryStore(kv, log.New(cmd.ErrOrStderr(), "", 0))
	if err := store.SaveWeightUnit(cmd.Context(), result.unit); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(tui.SuccessStyle.Render("✓") + " Configuration saved to " + configPath)
	fmt.Println()
	fmt.Printf("  Model:       %s\n", tui.ModelStyle.Render(result.model))
	fmt.Printf("  Weight unit: %s\n", tui.ModelStyle.Render(string(result.unit)))
	return nil
}

// Bubble Tea model for the setup wizard

const (
	stepModel = iota
	stepUnit
	stepCount
)

type setupModel struct {
	step      int
	lists     [stepCount]list.Model
	model     string
	unit      core.WeightUnit
	cancelled bool
}

type setupItem struct {
	value, title, desc string
}

func (i setupItem) Title() string       { return i.title }
func (i setupItem) Description() string { return i.desc }
func (i setupItem) FilterValue() string { return i.title }

func newSetupModel(models []llm.ModelInfo) setupModel {
	modelItems := make([]list.Item, len(models))
	for i, m := range models {
		modelItems[i] = setupItem{value: m.ID, title: m.Name, desc: m.Description}
	}
	unitItems := []list.Item{
		setupItem{value: string(core.UnitPounds), title: "Pounds (lbs)", desc: "Default"},
		setupItem{value: string(core.UnitKilograms), title: "Kilograms (kg)", desc: "Metric"},
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(tui.ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("#95a5a6"))

	var lists [stepCount]list.Model
	titles := [stepCount]string{"Select Estimation Model", "Select Weight Unit"}
	for i, items := range [stepCount][]list.Item{modelItems, unitItems} {
		l := list.New(items, delegate, 60, 14)
		l.Title = titles[i]
		l.SetShowStatusBar(false)
		l.SetFilteringEnabled(false)
		l.Styles.Title = tui.TitleStyle
		lists[i] = l
	}

	return setupModel{
		lists: lists,
		model: llm.DefaultModel,
		unit:  core.DefaultWeightUnit,
	}
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		for i := range m.lists {
			m.lists[i].SetWidth(msg.Width)
			m.lists[i].SetHeight(msg.Height - 4)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if item, ok := m.lists[m.step].SelectedItem().(setupItem); ok {
				switch m.step {
				case stepModel:
					m.model = item.value
				case stepUnit:
					m.unit = core.WeightUnit(item.value)
				}
			}
			m.step++
			if m.step >= stepCount {
				return m, tea.Quit
			}
			return m, nil

		case "left", "h":
			if m.step > 0 {
				m.step--
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.lists[m.step], cmd = m.lists[m.step].Update(msg)
	return m, cmd
}

func (m setupModel) View() string {
	if m.cancelled || m.step >= stepCount {
		return ""
	}

	steps := []string{"Model", "Weight unit"}
	progress := "\n  "
	for i, s := range steps {
		switch {
		case i == m.step:
			progress += tui.SelectedStyle.Render(fmt.Sprintf("[%s]", s))
		case i < m.step:
			progress += tui.SuccessStyle.Render(fmt.Sprintf("✓ %s", s))
		default:
			progress += tui.UnselectedStyle.Render(fmt.Sprintf("○ %s", s))
		}
		if i < len(steps)-1 {
			progress += " → "
		}
	}
	progress += "\n\n"

	help := tui.HelpStyle.Render("\n  ↑/↓: navigate • enter: select • ←: back • q: quit")
	return progress + m.lists[m.step].View() + help
}
