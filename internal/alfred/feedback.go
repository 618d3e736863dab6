// Package alfred emits Script Filter feedback: the JSON item list the
// launcher renders as selectable rows.
package alfred

import (
	"encoding/json"
	"io"
)

// Icon paths shipped alongside the workflow binary.
const (
	IconTrack    = "icons/track.png"
	IconAlbum    = "icons/album.png"
	IconPlaylist = "icons/playlist.png"
	IconOutput   = "icons/output.png"
	IconPlay     = "icons/play.png"
	IconPause    = "icons/pause.png"
	IconWarning  = "icons/warning.png"
	IconError    = "icons/error.png"
)

// Icon references an image file for an item.
type Icon struct {
	Path string `json:"path"`
}

// Mod is an alternate action bound to a modifier key.
type Mod struct {
	Subtitle string `json:"subtitle,omitempty"`
	Arg      string `json:"arg,omitempty"`
	Valid    bool   `json:"valid"`
}

// Item is one selectable row.
type Item struct {
	Title        string          `json:"title"`
	Subtitle     string          `json:"subtitle,omitempty"`
	Arg          string          `json:"arg,omitempty"`
	Autocomplete string          `json:"autocomplete,omitempty"`
	Valid        bool            `json:"valid"`
	Icon         *Icon           `json:"icon,omitempty"`
	Mods         map[string]*Mod `json:"mods,omitempty"`
}

// WithSubtitle sets the subtitle and returns the item for chaining.
func (it *Item) WithSubtitle(s string) *Item {
	it.Subtitle = s
	return it
}

// WithArg sets the action argument and marks the item actionable.
func (it *Item) WithArg(arg string) *Item {
	it.Arg = arg
	it.Valid = true
	return it
}

// WithAutocomplete sets the tab-completion text.
func (it *Item) WithAutocomplete(s string) *Item {
	it.Autocomplete = s
	return it
}

// WithIcon sets the item icon.
func (it *Item) WithIcon(path string) *Item {
	it.Icon = &Icon{Path: path}
	return it
}

// WithMod binds an alternate action to a modifier key ("cmd", "alt", ...).
func (it *Item) WithMod(key, subtitle, arg string) *Item {
	if it.Mods == nil {
		it.Mods = map[string]*Mod{}
	}
	it.Mods[key] = &Mod{Subtitle: subtitle, Arg: arg, Valid: true}
	return it
}

// Feedback is a full Script Filter response.
type Feedback struct {
	Items     []*Item           `json:"items"`
	Variables map[string]string `json:"variables,omitempty"`
	Rerun     float64           `json:"rerun,omitempty"`
}

func New() *Feedback {
	return &Feedback{Items: []*Item{}}
}

// NewItem appends an item and returns it for further configuration.
func (f *Feedback) NewItem(title string) *Item {
	it := &Item{Title: title}
	f.Items = append(f.Items, it)
	return it
}

// Warning appends a non-actionable warning row.
func (f *Feedback) Warning(title, subtitle string) *Item {
	return f.NewItem(title).WithSubtitle(subtitle).WithIcon(IconWarning)
}

// Error appends a non-actionable error row. Per the error contract every
// failure surfaces as exactly one of these.
func (f *Feedback) Error(title, subtitle string) *Item {
	return f.NewItem(title).WithSubtitle(subtitle).WithIcon(IconError)
}

// Var sets a session variable passed back on the next invocation.
func (f *Feedback) Var(k, v string) *Feedback {
	if f.Variables == nil {
		f.Variables = map[string]string{}
	}
	f.Variables[k] = v
	return f
}

// Send writes the feedback JSON to w. Alfred reads it from stdout, so
// nothing else may be printed there.
func (f *Feedback) Send(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(f)
}
