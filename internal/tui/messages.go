package tui

// Scene represents different screens in the TUI
type Scene int

const (
	SceneDashboard Scene = iota
	SceneParameters
	SceneMetrics
	ScenePresets
	SceneBreakeven
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneDashboard:
		return "Dashboard"
	case SceneParameters:
		return "Parameters"
	case SceneMetrics:
		return "Metrics"
	case ScenePresets:
		return "Presets"
	case SceneBreakeven:
		return "Break-even"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}
