package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateAppendsLines(t *testing.T) {
	t.Parallel()

	m := newModel()
	next, _ := m.Update(lineMsg("--> lib"))
	m = next.(model)

	require.Equal(t, []string{"--> lib"}, m.lines)
	require.Contains(t, m.View(), "--> lib")
	require.Contains(t, m.View(), "building...")
}

func TestDoneSuccessRendersSuccessState(t *testing.T) {
	t.Parallel()

	m := newModel()
	next, cmd := m.Update(doneMsg{failed: false})
	m = next.(model)

	require.True(t, m.done)
	require.False(t, m.failed)
	require.NotNil(t, cmd, "done must request tea.Quit")
	require.True(t, strings.Contains(m.View(), "build succeeded"))
}

func TestDoneFailureRendersFailureState(t *testing.T) {
	t.Parallel()

	m := newModel()
	next, _ := m.Update(doneMsg{failed: true})
	m = next.(model)

	require.True(t, m.failed)
	require.True(t, strings.Contains(m.View(), "build failed"))
}
