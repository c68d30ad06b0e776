package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings for the application.
type keyMap struct {
	Quit    key.Binding
	Back    key.Binding
	Confirm key.Binding
	Refresh key.Binding

	Up   key.Binding
	Down key.Binding

	MoveUp   key.Binding
	MoveDown key.Binding

	ViewMyProjects key.Binding
	ViewBrowse     key.Binding
	ViewReviews    key.Binding

	AddImages    key.Binding
	SetMain      key.Binding
	DeleteImage  key.Binding
	FinishReview key.Binding
	OpenURL      key.Binding
	YankURL      key.Binding
	Logout       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j", "down"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("J", "move down"),
		),
		ViewMyProjects: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "my projects"),
		),
		ViewBrowse: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "browse"),
		),
		ViewReviews: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "reviews"),
		),
		AddImages: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add images"),
		),
		SetMain: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "set main image"),
		),
		DeleteImage: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete image"),
		),
		FinishReview: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "finish review"),
		),
		OpenURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		YankURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy url"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log out"),
		),
	}
}
