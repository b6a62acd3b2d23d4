package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding of the viewer. It implements help.KeyMap.
type keyMap struct {
	// Rows
	Up      key.Binding
	Down    key.Binding
	RowUp   key.Binding
	RowDown key.Binding

	// Time
	Left       key.Binding
	Right      key.Binding
	BlockLeft  key.Binding
	BlockRight key.Binding
	PrevSample key.Binding
	NextSample key.Binding
	ExtendPrev key.Binding
	ExtendNext key.Binding
	Home       key.Binding
	End        key.Binding

	// View
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ZoomReset key.Binding
	Details   key.Binding

	// Recent list
	Open   key.Binding
	Forget key.Binding
	Back   key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "row up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "row down"),
		),
		RowUp: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("ctrl+↑", "move row up"),
		),
		RowDown: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("ctrl+↓", "move row down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "pan left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan right"),
		),
		BlockLeft: key.NewBinding(
			key.WithKeys("ctrl+left", "pgup"),
			key.WithHelp("ctrl+←", "page left"),
		),
		BlockRight: key.NewBinding(
			key.WithKeys("ctrl+right", "pgdown"),
			key.WithHelp("ctrl+→", "page right"),
		),
		PrevSample: key.NewBinding(
			key.WithKeys("alt+left"),
			key.WithHelp("alt+←", "prev sample"),
		),
		NextSample: key.NewBinding(
			key.WithKeys("alt+right"),
			key.WithHelp("alt+→", "next sample"),
		),
		ExtendPrev: key.NewBinding(
			key.WithKeys("alt+shift+left"),
			key.WithHelp("shift+alt+←", "extend to prev"),
		),
		ExtendNext: key.NewBinding(
			key.WithKeys("alt+shift+right"),
			key.WithHelp("shift+alt+→", "extend to next"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "start"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "end"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "zoom out"),
		),
		ZoomReset: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset zoom"),
		),
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Forget: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "forget"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "recent"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

// FullHelp is shown above the footer after pressing ?.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.RowUp, k.RowDown},
		{k.Left, k.Right, k.BlockLeft, k.BlockRight, k.Home, k.End},
		{k.PrevSample, k.NextSample, k.ExtendPrev, k.ExtendNext},
		{k.ZoomIn, k.ZoomOut, k.ZoomReset, k.Details},
		{k.Back, k.Help, k.Quit},
	}
}

// listKeyMap is the help shown on the recent list.
type listKeyMap keyMap

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Forget, k.Quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
