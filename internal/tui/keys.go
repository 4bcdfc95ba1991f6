package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Prompt   key.Binding
	Toggle   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Forward  key.Binding
	Backward key.Binding
	Restart  key.Binding
	Loop     key.Binding
	Top      key.Binding
	Tab      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Prompt:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "play/pause")),
		Next:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next track")),
		Prev:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous track")),
		Forward:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "seek +5s")),
		Backward: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "seek -5s")),
		Restart:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "seek to start")),
		Loop:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle loop")),
		Top:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "scroll to top")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Quit, k.Help, k.Prompt, k.Toggle, k.Forward, k.Loop, k.Top}
}

func (k keyMap) all() []key.Binding {
	return []key.Binding{
		k.Quit, k.Help, k.Prompt, k.Tab,
		k.Toggle, k.Next, k.Prev,
		k.Forward, k.Backward, k.Restart,
		k.Loop, k.Top,
	}
}
