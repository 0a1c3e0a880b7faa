package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	sync    key.Binding
	note    key.Binding
	clear   key.Binding
	copy    key.Binding
	version key.Binding
	enter   key.Binding
	esc     key.Binding
	quit    key.Binding
	yes     key.Binding
	no      key.Binding
}

var keys = keyMap{
	sync:    key.NewBinding(key.WithKeys("s")),
	note:    key.NewBinding(key.WithKeys("n")),
	clear:   key.NewBinding(key.WithKeys("c")),
	copy:    key.NewBinding(key.WithKeys("y")),
	version: key.NewBinding(key.WithKeys("v")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	yes:     key.NewBinding(key.WithKeys("y")),
	no:      key.NewBinding(key.WithKeys("n", "esc")),
}
