package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings shown in the help line. Letter commands only act
// while the cursor is on the state row; on a rule cell every printable key is
// typed into the rule.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Space  key.Binding
	Reset  key.Binding
	Step   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Help   key.Binding
	Quit   key.Binding
	ForceQ key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓/←/→", "move")),
		Down:   key.NewBinding(key.WithKeys("down")),
		Left:   key.NewBinding(key.WithKeys("left")),
		Right:  key.NewBinding(key.WithKeys("right")),
		Space:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "blank / animate")),
		Reset:  key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "reset")),
		Step:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "step")),
		Next:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "next/prev level")),
		Prev:   key.NewBinding(key.WithKeys("p")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQ: key.NewBinding(key.WithKeys("ctrl+c", "esc")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Space, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Space, k.Reset},
		{k.Step, k.Next, k.Quit},
	}
}
