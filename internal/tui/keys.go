package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

func binding(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), help))
}

type browserKeyMap struct {
	Up, Down, Open, New, Delete, Refresh, Quit key.Binding
}

var browserKeys = browserKeyMap{
	Up:      binding("up", "up", "k"),
	Down:    binding("down", "down", "j"),
	Open:    binding("open", "enter"),
	New:     binding("new song", "n"),
	Delete:  binding("delete", "d"),
	Refresh: binding("refresh", "r"),
	Quit:    binding("quit", "q", "ctrl+c"),
}

type editorKeyMap struct {
	Up, Down, Left, Right          key.Binding
	NextTrack, PrevTrack           key.Binding
	Dot, Rest                      key.Binding
	Sharp, Flat, Natural           key.Binding
	Whole, Half, Quarter           key.Binding
	Eighth, Sixteenth              key.Binding
	Insert, Delete                 key.Binding
	AddTrack, DeleteTrack          key.Binding
	Mute, SharpsMode, FlatsMode    key.Binding
	Instrument                     key.Binding
	Faster, Slower, Louder, Softer key.Binding
	Play, Save, Rename, Back       key.Binding
}

var editorKeys = editorKeyMap{
	Up:          binding("pitch up", "up", "k"),
	Down:        binding("pitch down", "down", "j"),
	Left:        binding("previous note", "left", "h"),
	Right:       binding("next note", "right", "l"),
	NextTrack:   binding("next track", "tab"),
	PrevTrack:   binding("previous track", "shift+tab"),
	Dot:         binding("dot", "."),
	Rest:        binding("rest", "r"),
	Sharp:       binding("sharp", "#"),
	Flat:        binding("flat", "b"),
	Natural:     binding("natural", "n"),
	Whole:       binding("whole", "1"),
	Half:        binding("half", "2"),
	Quarter:     binding("quarter", "4"),
	Eighth:      binding("eighth", "8"),
	Sixteenth:   binding("sixteenth", "6"),
	Insert:      binding("insert", "i"),
	Delete:      binding("delete", "x"),
	AddTrack:    binding("add track", "a"),
	DeleteTrack: binding("delete track", "D"),
	Mute:        binding("mute", "m"),
	SharpsMode:  binding("key sharps", "S"),
	FlatsMode:   binding("key flats", "F"),
	Instrument:  binding("instrument", "I"),
	Faster:      binding("tempo", "+", "="),
	Slower:      binding("tempo", "-", "_"),
	Louder:      binding("volume", "]"),
	Softer:      binding("volume", "["),
	Play:        binding("play/stop", "p"),
	Save:        binding("save", "ctrl+s"),
	Rename:      binding("rename", "R"),
	Back:        binding("back", "q", "esc"),
}

// helpLine renders bindings the way the footer shows them: "k: help • ...".
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}
