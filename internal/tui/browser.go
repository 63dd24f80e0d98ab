package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/icco/genstaff/internal/song"
)

// browserModel lists the stored songs.
type browserModel struct {
	songs       []song.Summary
	cursor      int
	viewportTop int
}

// setSongs replaces the list, keeping the cursor and viewport in bounds.
func (b *browserModel) setSongs(songs []song.Summary) {
	b.songs = songs
	if b.cursor >= len(b.songs) {
		b.cursor = len(b.songs) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.viewportTop > b.cursor {
		b.viewportTop = b.cursor
	}
}

func (b browserModel) selected() (song.Summary, bool) {
	if b.cursor < 0 || b.cursor >= len(b.songs) {
		return song.Summary{}, false
	}
	return b.songs[b.cursor], true
}

// visibleLines is how many songs fit on a screen of the given height.
func visibleLines(height int) int {
	return max(height-9, 5)
}

func (b *browserModel) scroll(height int) {
	lines := visibleLines(height)
	if b.cursor < b.viewportTop {
		b.viewportTop = b.cursor
	}
	if b.cursor >= b.viewportTop+lines {
		b.viewportTop = b.cursor - lines + 1
	}
}

func (m Model) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := &m.browser

	switch {
	case key.Matches(msg, browserKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, browserKeys.Up):
		if b.cursor > 0 {
			b.cursor--
		}
		b.scroll(m.height)
	case key.Matches(msg, browserKeys.Down):
		if b.cursor < len(b.songs)-1 {
			b.cursor++
		}
		b.scroll(m.height)
	case key.Matches(msg, browserKeys.Open):
		if s, ok := b.selected(); ok {
			return m, m.openCmd(s.ID)
		}
	case key.Matches(msg, browserKeys.New):
		return m, m.createCmd()
	case key.Matches(msg, browserKeys.Delete):
		if s, ok := b.selected(); ok {
			m.setInfo("Deleting %s", s.Name)
			return m, m.deleteCmd(s.ID)
		}
	case key.Matches(msg, browserKeys.Refresh):
		return m, m.listCmd()
	}
	return m, nil
}

func (m Model) viewBrowser() string {
	b := m.browser

	var s strings.Builder
	s.WriteString(titleStyle.Render("GENSTAFF - Songs") + "\n\n")

	if len(b.songs) == 0 {
		s.WriteString("No songs yet. Press n to start one.\n")
	} else {
		end := min(len(b.songs), b.viewportTop+visibleLines(m.height))
		for i := b.viewportTop; i < end; i++ {
			line := fmt.Sprintf("  %s", b.songs[i].Name)
			if i == b.cursor {
				line = selectedStyle.Render(fmt.Sprintf("> %s", b.songs[i].Name))
			}
			s.WriteString(line + "\n")
		}
		if end < len(b.songs) {
			s.WriteString(helpStyle.Render(fmt.Sprintf("  ... %d more", len(b.songs)-end)) + "\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(m.footer())
	s.WriteString("\n" + helpLine(browserKeys.Up, browserKeys.Down, browserKeys.Open, browserKeys.New,
		browserKeys.Delete, browserKeys.Refresh, browserKeys.Quit))
	return s.String()
}
