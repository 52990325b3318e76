package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Cart      key.Binding
	Menu      key.Binding
	Plus      key.Binding
	Minus     key.Binding
	Remove    key.Binding
	NewOrder  key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Cart:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cart")),
		Menu:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "add more")),
		Plus:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
		Minus:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less")),
		Remove:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
		NewOrder:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new order")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}
