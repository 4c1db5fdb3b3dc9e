package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit           key.Binding
	Back           key.Binding
	Refresh        key.Binding
	Up             key.Binding
	Down           key.Binding
	Open           key.Binding // enter: open the post card header
	Like           key.Binding
	ToggleComments key.Binding
	Comment        key.Binding // a: add a top-level comment
	Reply          key.Binding // R: reply to the selected comment
	PrevComment    key.Binding
	NextComment    key.Binding
	ShowMore       key.Binding
	Delete         key.Binding
	Profile        key.Binding // p: author's profile
	MyProfile      key.Binding // P: own profile
	Symptoms       key.Binding // s: connect to a doctor
	FriendRequest  key.Binding
	AcceptRequest  key.Binding
	Unfriend       key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		ToggleComments: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comments"),
		),
		Comment: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "comment"),
		),
		Reply: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reply"),
		),
		PrevComment: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev comment"),
		),
		NextComment: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next comment"),
		),
		ShowMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "more/less"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Profile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "profile"),
		),
		MyProfile: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "my profile"),
		),
		Symptoms: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "find a doctor"),
		),
		FriendRequest: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "add friend"),
		),
		AcceptRequest: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "accept request"),
		),
		Unfriend: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unfriend"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
	}
}

// HelpLine renders "key: desc" pairs separated by bullets.
func HelpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		h := b.Help()
		if i > 0 {
			out += " • "
		}
		out += h.Key + ": " + h.Desc
	}
	return out
}
