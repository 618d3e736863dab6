package native

import (
	"testing"

	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/stretchr/testify/assert"

	"github.com/avhall/alfred-mpd/internal/mpd"
)

func TestTrackFromAttrs(t *testing.T) {
	a := gompd.Attrs{
		"Artist": "David Bowie",
		"Album":  "Low",
		"Disc":   "1",
		"Track":  "3",
		"Title":  "Sound and Vision",
		"file":   "bowie/low/03.flac",
	}
	assert.Equal(t, mpd.Track{
		Artist: "David Bowie", Album: "Low", Disc: "1", TrackNo: "3",
		Title: "Sound and Vision", File: "bowie/low/03.flac",
	}, trackFromAttrs(a))
}

func TestTrackListSkipsDirsAndTruncates(t *testing.T) {
	attrs := []gompd.Attrs{
		{"directory": "bowie"}, // listings mix directories in
		{"file": "a.flac", "Title": "A"},
		{"file": "b.flac", "Title": "B"},
		{"file": "c.flac", "Title": "C"},
	}

	c := New("", 0)
	assert.Len(t, c.trackList(attrs), 3)

	c.MaxResults = 2
	got := c.trackList(attrs)
	assert.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
}

func TestAddr(t *testing.T) {
	c := New("", 0)
	assert.Equal(t, "localhost:6600", c.addr())

	c = New("jukebox", 6601)
	assert.Equal(t, "jukebox:6601", c.addr())
}

func TestSearchTagsCopy(t *testing.T) {
	tags, err := New("", 0).SearchTypes(nil)
	assert.NoError(t, err)
	assert.Contains(t, tags, "any")
	assert.Contains(t, tags, "artist")

	// callers must not be able to mutate the shared list
	tags[0] = "mutated"
	again, _ := New("", 0).SearchTypes(nil)
	assert.Equal(t, "any", again[0])
}
