// internal/ui/status.go

package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"smartPaste/internal/config"
	"smartPaste/internal/models"
)

// refreshInterval to odstęp między kolejnymi odczytami kontekstu w
// trybie watch.
const refreshInterval = 2 * time.Second

// ContextProvider dostarcza świeży kontekst połączenia dla powłoki
// pierwszego planu.
type ContextProvider func() models.ConnectionContext

type tickMsg time.Time

// StatusModel to model Bubble Tea pokazujący na żywo kontekst powłoki
// pierwszego planu i aktywną konfigurację.
type StatusModel struct {
	spinner  spinner.Model
	cfg      *config.Config
	provider ContextProvider

	ctx         models.ConnectionContext
	lastRefresh time.Time
	quitting    bool
}

// NewStatusModel tworzy model widoku statusu.
func NewStatusModel(cfg *config.Config, provider ContextProvider) StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(highlight)

	return StatusModel{
		spinner:  s,
		cfg:      cfg,
		provider: provider,
		ctx:      provider(),
	}
}

// Init uruchamia spinner i cykl odświeżania.
func (m StatusModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update obsługuje zdarzenia: klawisze wyjścia, tyknięcia odświeżania i
// animację spinnera.
func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		m.ctx = m.provider()
		m.lastRefresh = time.Time(msg)
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renderuje panel kontekstu i panel konfiguracji.
func (m StatusModel) View() string {
	if m.quitting {
		return ""
	}

	title := TitleStyle.Render("smartPaste status")

	var contextLine string
	if m.ctx.IsRemote {
		contextLine = SuccessStyle.Render(fmt.Sprintf("SSH session: %s", m.ctx.String()))
	} else {
		contextLine = LabelStyle.Render("Local shell (no outgoing SSH session)")
	}

	configTable := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Row("Enabled", fmt.Sprintf("%v", m.cfg.Enabled)).
		Row("Remote temp dir", m.cfg.RemoteTempDir).
		Row("Local temp dir", m.cfg.LocalTempDir).
		Row("Max file size", fmt.Sprintf("%d MB", m.cfg.MaxFileSizeMB)).
		Row("Paste cooldown", m.cfg.PasteCooldown().String()).
		Row("SSH timeout", m.cfg.SSHTimeout().String()).
		Row("Upload retries", fmt.Sprintf("%d", m.cfg.SCPRetryCount))

	refresh := DescriptionStyle.Render(
		fmt.Sprintf("%s refreshing every %s  •  press q to quit", m.spinner.View(), refreshInterval))

	return fmt.Sprintf("\n%s\n\n%s\n\n%s\n\n%s\n",
		title,
		PanelStyle.Render(contextLine),
		DescriptionStyle.Render(configTable.Render()),
		refresh)
}
