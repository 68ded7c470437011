package monitor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortOrder_String(t *testing.T) {
	tests := []struct {
		order  SortOrder
		expect string
	}{
		{SortByMemory, "memory"},
		{SortByCPU, "CPU"},
		{SortByPID, "PID"},
		{SortByName, "name"},
		{SortOrder(99), "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.order.String())
		})
	}
}

func TestSortOrder_Next(t *testing.T) {
	assert.Equal(t, SortByCPU, SortByMemory.Next())
	assert.Equal(t, SortByPID, SortByCPU.Next())
	assert.Equal(t, SortByName, SortByPID.Next())
	assert.Equal(t, SortByMemory, SortByName.Next())
}

func TestTab_Cycle(t *testing.T) {
	assert.Equal(t, TabProcesses, TabOverview.Next())
	assert.Equal(t, TabOverview, TabSystem.Next())
	assert.Equal(t, TabSystem, TabOverview.Prev())
	assert.Equal(t, TabDisks, TabNetwork.Prev())
	assert.Equal(t, "Alerts", TabAlerts.String())
}

func TestHandleKeyMsg_Tabs(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want Tab
	}{
		{"number jumps", []string{"4"}, TabNetwork},
		{"tab advances", []string{"tab", "tab"}, TabDisks},
		{"shift+tab wraps", []string{"shift+tab"}, TabSystem},
		{"esc returns to overview", []string{"5", "esc"}, TabOverview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, testSnapshot(), 120)
			for _, k := range tt.keys {
				m, _ = press(t, m, k)
			}
			assert.Equal(t, tt.want, m.Tab())
		})
	}
}

func TestHandleKeyMsg_Help(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot(), 120)

	m, _ = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	// Esc closes help without leaving the current tab
	m, _ = press(t, m, "3")
	m, _ = press(t, m, "esc")
	assert.False(t, m.showHelp)
	assert.Equal(t, TabDisks, m.Tab())
}

func TestHandleKeyMsg_Quit(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			m, _ := newTestModel(t, testSnapshot(), 120)
			m, cmd := press(t, m, key)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestHandleKeyMsg_SamplerRequests(t *testing.T) {
	m, env := newTestModel(t, testSnapshot(), 120)

	_, cmd := press(t, m, "r")
	assert.Equal(t, 1, env.controller.resets)
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg{text: "Statistics reset"}, cmd())

	_, cmd = press(t, m, "i")
	assert.Equal(t, 1, env.controller.infoRefresh)
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg{text: "Refreshing system info"}, cmd())
}

func TestHandleKeyMsg_CycleSort(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot(), 120)
	m, _ = press(t, m, "2")

	m, _ = press(t, m, "s")
	assert.Equal(t, SortByCPU, m.sortOrder)
	assert.Contains(t, m.renderFooter(), "s sort: CPU")
}

func TestHandleKeyMsg_ToggleNotifications(t *testing.T) {
	m, env := newTestModel(t, testSnapshot(), 120)
	require.True(t, env.settings.Settings().NotificationsEnabled)

	_, cmd := press(t, m, "n")
	assert.False(t, env.settings.Settings().NotificationsEnabled)
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg{text: "Alerts off (w to save)"}, cmd())

	_, cmd = press(t, m, "n")
	assert.True(t, env.settings.Settings().NotificationsEnabled)
	assert.Equal(t, statusMsg{text: "Alerts on (w to save)"}, cmd())

	// Toggling alone never writes the file
	assert.NoFileExists(t, env.settings.Path())
}

func TestHandleKeyMsg_Unhandled(t *testing.T) {
	m, _ := newTestModel(t, testSnapshot(), 120)
	handled, cmd := m.HandleKeyMsg(keyMsg("z"))
	assert.False(t, handled)
	assert.Nil(t, cmd)
}
