package models

import (
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danny-Dasilva/fake-useragent/internal/useragent"
)

var fixture = useragent.StaticLoader{
	{UserAgent: "chrome-win10", System: "Chrome 124.0 Win10", Browser: "chrome", Version: 124, OS: "win10", Type: "pc", Percent: 10},
	{UserAgent: "firefox-linux", System: "Firefox 125.0 Linux", Browser: "firefox", Version: 125, OS: "linux", Type: "pc", Percent: 1},
	{UserAgent: "opera-win10", System: "Opera 109.0 Win10", Browser: "opera", Version: 109, OS: "win10", Type: "pc", Percent: 0.6},
}

func newTestModel(t *testing.T, copyFn CopyFunc) RecordModel {
	t.Helper()
	opts := useragent.DefaultOptions()
	opts.Loader = fixture
	opts.Logger = log.New(io.Discard)
	ua, err := useragent.New(opts)
	require.NoError(t, err)

	m := NewRecordModel(ua, copyFn)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(RecordModel)
}

func press(t *testing.T, m RecordModel, key string) (RecordModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return updated.(RecordModel), cmd
}

func TestRecordModelListsAcceptedRecords(t *testing.T) {
	m := newTestModel(t, nil)

	// opera is outside the default browser set
	assert.Len(t, m.list.Items(), 2)
	rec, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "chrome-win10", rec.UserAgent)
}

func TestRecordModelCopy(t *testing.T) {
	var copied string
	m := newTestModel(t, func(text string) error {
		copied = text
		return nil
	})

	m, _ = press(t, m, "c")
	assert.Equal(t, "chrome-win10", copied)
	assert.Contains(t, m.Status(), "Copied")
}

func TestRecordModelCopyErrors(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, "c")
	assert.Equal(t, "Clipboard unavailable", m.Status())

	m = newTestModel(t, func(string) error { return errors.New("no display") })
	m, _ = press(t, m, "c")
	assert.Equal(t, "no display", m.Status())
}

func TestRecordModelRandom(t *testing.T) {
	m := newTestModel(t, nil)

	for i := 0; i < 10; i++ {
		m, _ = press(t, m, "r")
		rec, ok := m.Selected()
		require.True(t, ok)
		assert.Contains(t, []string{"chrome-win10", "firefox-linux"}, rec.UserAgent)
		assert.Equal(t, "Picked "+rec.System, m.Status())
	}
}

func TestRecordModelQuit(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRecordModelView(t *testing.T) {
	m := newTestModel(t, nil)

	view := m.View()
	assert.Contains(t, view, "2 records")
	assert.Contains(t, view, "User Agent:")
	assert.Contains(t, view, "X-IDENTIFIER: chrome")
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short", "abc def", 20, "abc def"},
		{"words", "aaa bbb ccc", 7, "aaa bbb\nccc"},
		{"long token", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"zero width", "abc def", 0, "abc def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wordWrap(tt.text, tt.width)
			assert.Equal(t, tt.want, got)
			for _, line := range strings.Split(got, "\n") {
				if tt.width > 0 {
					assert.LessOrEqual(t, len(line), tt.width)
				}
			}
		})
	}
}
