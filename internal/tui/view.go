package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/billie-coop/genomechat/internal/backend"
	"github.com/billie-coop/genomechat/internal/chat"
)

const (
	minTextWidth   = 20
	previewLength  = 40
	inputRows      = 2
	bannerRows     = 1
	statusRows     = 1
	suggestionRows = 1
	helpRows       = 1
)

// chromeHeight is everything below the transcript. The banner row is
// always reserved so the layout does not jump when an error appears.
func chromeHeight() int {
	return bannerRows + statusRows + suggestionRows + inputRows + 2 + helpRows
}

// View renders the panel.
func (m *Model) View() tea.View {
	if m.width == 0 {
		return tea.NewView("Initializing...")
	}

	sections := []string{
		m.viewport.View(),
		m.renderBanner(),
		m.renderStatus(),
		m.renderSuggestions(),
		inputBorderStyle.Width(m.width - 2).Render(m.input.View()),
		dimStyle.Render("enter send · tab/shift+tab pick suggestion · ctrl+s send suggestion · alt+1..4 quick send · esc dismiss error · ctrl+c quit"),
	}

	return tea.NewView(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderTranscript rebuilds the viewport content. follow scrolls to the
// bottom, which is wanted after new messages but not on spinner ticks.
func (m *Model) renderTranscript(follow bool) {
	if m.width == 0 {
		return
	}
	m.viewport.SetContent(m.transcript())
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) transcript() string {
	textWidth := m.width - 4
	if textWidth < minTextWidth {
		textWidth = minTextWidth
	}

	var sb strings.Builder
	for _, msg := range m.snapshot.Messages {
		switch {
		case msg.IsError():
			sb.WriteString(errorLabelStyle.Render("GFM Assistant"))
			sb.WriteString("\n")
			sb.WriteString(errorBodyStyle.Width(textWidth).Render(msg.Content))

		case msg.Role == chat.RoleAssistant:
			sb.WriteString(assistantStyle.Render("GFM Assistant"))
			sb.WriteString("\n")
			sb.WriteString(m.markdown.render(msg.Content, textWidth))

		default:
			label := userStyle.Render("You")
			if m.snapshot.IsPending(msg.ID) {
				label += " " + dimStyle.Render("queued")
			}
			sb.WriteString(label)
			sb.WriteString("\n")
			sb.WriteString(lipgloss.NewStyle().Width(textWidth).Render(msg.Content))
		}
		sb.WriteString("\n\n")

		// The reply will be spliced here, so that is where we wait for it.
		if m.snapshot.Busy() && msg.ID == m.snapshot.ActiveMessageID {
			sb.WriteString(m.spinner.View())
			sb.WriteString("\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *Model) renderBanner() string {
	if m.snapshot.LastError == "" {
		return ""
	}
	text := chat.ErrorContent(m.snapshot.LastError) + "  (esc to dismiss)"
	return bannerStyle.MaxWidth(m.width).Render(text)
}

func (m *Model) renderStatus() string {
	var parts []string

	switch m.healthState {
	case healthOnline:
		parts = append(parts, onlineStyle.Render("● ")+statusStyle.Render(m.health.BaseURL()))
	case healthOffline:
		parts = append(parts, offlineStyle.Render("● ")+statusStyle.Render(m.health.BaseURL()+" "+describeHealth(m.healthErr)))
	default:
		if m.health != nil {
			parts = append(parts, statusStyle.Render("○ "+m.health.BaseURL()))
		}
	}

	snap := m.snapshot
	parts = append(parts, statusStyle.Render(snap.State.String()))
	if snap.QueueLength > 0 {
		parts = append(parts, statusStyle.Render(fmt.Sprintf("queue %d · next: %s", snap.QueueLength, truncate(snap.NextPending, previewLength))))
	}
	if st := snap.Stats; st.Completed > 0 {
		parts = append(parts, statusStyle.Render(fmt.Sprintf("%d ok · %d failed · avg %s",
			st.Completed-st.Failed, st.Failed, st.AvgResponseTime.Round(100*time.Millisecond))))
	}

	return strings.Join(parts, statusStyle.Render("  │  "))
}

func (m *Model) renderSuggestions() string {
	items := make([]string, 0, len(m.suggestions))
	for i, s := range m.suggestions {
		label := fmt.Sprintf("%d. %s", i+1, truncate(s, previewLength))
		if i == m.selected {
			items = append(items, selectedSuggestionStyle.Render("› "+label))
		} else {
			items = append(items, suggestionStyle.Render("  "+label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(items, " "))
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func describeHealth(err error) string {
	var statusErr *backend.StatusError
	var transportErr *backend.TransportError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("unhealthy (%d)", statusErr.StatusCode)
	case errors.As(err, &transportErr):
		return "offline"
	default:
		return "unreachable"
	}
}
