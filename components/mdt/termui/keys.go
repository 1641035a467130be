package termui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextPage key.Binding
	PrevPage key.Binding
	JumpPage key.Binding
	Search   key.Binding
	Incident key.Binding
	Add      key.Binding
	Dismiss  key.Binding
	Close    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextPage: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev page")),
		JumpPage: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump")),
		Search:   key.NewBinding(key.WithKeys("ctrl+k", "/"), key.WithHelp("ctrl+k", "search")),
		Incident: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new incident")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add record")),
		Dismiss:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.Search, k.Add, k.Close, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPage, k.PrevPage, k.JumpPage},
		{k.Search, k.Incident, k.Add, k.Dismiss},
		{k.Close, k.Help, k.Quit},
	}
}

type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func defaultFormKeyMap() formKeyMap {
	return formKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Cancel}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
