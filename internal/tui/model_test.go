package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"potts-ca/internal/monitoring"
	"potts-ca/internal/potts"
)

func newTestModel(t *testing.T) (Model, *potts.Sim) {
	t.Helper()
	t.Cleanup(monitoring.SetLogger(nil))

	cfg := potts.DefaultConfig()
	cfg.Width, cfg.Height = 12, 10
	cfg.ElementsAcross, cfg.ElementsUp = 2, 2
	cfg.ElementWidth, cfg.ElementHeight = 3, 3
	sim := potts.NewSim(cfg)
	require.NoError(t, sim.Err())
	return New(sim, time.Millisecond), sim
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTicksAdvanceUnlessPaused(t *testing.T) {
	m, sim := newTestModel(t)
	next, cmd := m.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, sim.Clock().Steps())

	next, _ = next.Update(key(" "))
	next, _ = next.Update(tickMsg(time.Now()))
	assert.Equal(t, 1, sim.Clock().Steps(), "paused")

	next, _ = next.Update(key("n"))
	assert.Equal(t, 2, sim.Clock().Steps(), "single step while paused")
	assert.Contains(t, next.View(), "paused")
}

func TestModelTemperatureKeys(t *testing.T) {
	m, sim := newTestModel(t)
	next, _ := m.Update(key("+"))
	assert.InDelta(t, 0.15, sim.Config().Params.Temperature, 1e-9)
	next, _ = next.Update(key("-"))
	next, _ = next.Update(key("-"))
	next, _ = next.Update(key("-"))
	assert.InDelta(t, 0.01, sim.Config().Params.Temperature, 1e-9, "clamped")
	assert.Contains(t, next.View(), "temperature 0.01")
}

func TestModelViewRowsAndQuit(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 10+2, "lattice rows, status and help")
	assert.Contains(t, view, "cells=4")

	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}
