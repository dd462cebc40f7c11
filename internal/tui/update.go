package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := msg.Height - 4
		m.dashboardModel.SetSize(msg.Width, contentHeight)
		m.parametersModel.SetSize(msg.Width, contentHeight)
		m.metricsModel.SetSize(msg.Width, contentHeight)
		m.presetsModel.SetSize(msg.Width, contentHeight)
		m.breakevenModel.SetSize(msg.Width, contentHeight)
		return m, nil

	case NavigateMsg:
		return m.navigate(msg.Scene)

	case tuimsg.PresetSelectedMsg:
		if err := m.applyPreset(msg.Name); err != nil {
			m.err = err
			return m, nil
		}
		m.status = fmt.Sprintf("Applied preset %s", m.preset)
		return m, nil

	case tuimsg.ParameterChangedMsg:
		m.setField(msg.Key, msg.Value)
		m.status = ""
		return m, nil

	case tuimsg.ResetMsg:
		_ = m.applyPreset(m.preset)
		m.status = fmt.Sprintf("Reset to preset %s", m.preset)
		return m, nil

	case tuimsg.ExportRequestedMsg:
		m.status = "Exporting..."
		return m, exportCmd(m.run, m.exportDir)

	case tuimsg.ExportCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.status = ""
			return m, nil
		}
		m.status = "Exported " + msg.Path
		return m, nil

	case tuimsg.SolveRequestedMsg:
		return m, solveCmd(m.solver, m.assumptions, msg.Target)

	case tuimsg.SolveCompleteMsg:
		m.breakevenModel.SetResult(msg.Result, msg.Err)
		return m, nil

	case tuimsg.ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		// Any key dismisses the error.
		m.err = nil
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Typed input goes to the scene that owns it.
	if m.currentScene == SceneBreakeven && m.breakevenModel.Editing() {
		return m.updateCurrentScene(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		return m.navigate(SceneHelp)

	case "esc":
		if m.currentScene != SceneDashboard {
			target := SceneDashboard
			if m.previousScene != m.currentScene && m.previousScene != SceneHelp {
				target = m.previousScene
			}
			return m.navigate(target)
		}
		return m, nil

	case "d":
		return m.navigate(SceneDashboard)
	case "p":
		return m.navigate(SceneParameters)
	case "m":
		return m.navigate(SceneMetrics)
	case "t":
		return m.navigate(ScenePresets)
	case "b":
		return m.navigate(SceneBreakeven)

	case "1", "2", "3":
		names := domain.PresetNames()
		i := int(msg.String()[0] - '1')
		if i < len(names) {
			return m.Update(tuimsg.PresetSelectedMsg{Name: names[i]})
		}
		return m, nil

	case "r":
		return m.Update(tuimsg.ResetMsg{})

	case "e":
		return m.Update(tuimsg.ExportRequestedMsg{})
	}

	return m.updateCurrentScene(msg)
}

// navigate switches scenes, focusing the break-even target field on entry
func (m Model) navigate(scene Scene) (tea.Model, tea.Cmd) {
	if scene == m.currentScene {
		return m, nil
	}
	m.previousScene = m.currentScene
	m.currentScene = scene

	if scene == SceneBreakeven {
		return m, m.breakevenModel.Focus()
	}
	m.breakevenModel.Blur()
	return m, nil
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneDashboard:
		m.dashboardModel, cmd = m.dashboardModel.Update(msg)
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneMetrics:
		m.metricsModel, cmd = m.metricsModel.Update(msg)
	case ScenePresets:
		m.presetsModel, cmd = m.presetsModel.Update(msg)
	case SceneBreakeven:
		m.breakevenModel, cmd = m.breakevenModel.Update(msg)
	}
	return m, cmd
}
