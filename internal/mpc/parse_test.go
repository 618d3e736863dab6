package mpc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avhall/alfred-mpd/internal/mpd"
)

func line(fields ...string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += delimiter
		}
		out += f
	}
	return out
}

func TestParseTracks(t *testing.T) {
	out := line("David Bowie", "Low", "1", "1", "Speed of Life", "bowie/low/01.flac") + "\n" +
		line("David Bowie", "Low", "1", "2", "Breaking Glass", "bowie/low/02.flac") + "\n"

	tracks := parseTracks(out, 0)
	assert.Len(t, tracks, 2)
	assert.Equal(t, mpd.Track{
		Artist: "David Bowie", Album: "Low", Disc: "1", TrackNo: "1",
		Title: "Speed of Life", File: "bowie/low/01.flac",
	}, tracks[0])
	assert.Equal(t, "Breaking Glass", tracks[1].Title)
}

func TestParseTracksTruncates(t *testing.T) {
	out := ""
	for i := 0; i < 5; i++ {
		out += line("a", "b", "", "", "t", "f") + "\n"
	}
	assert.Len(t, parseTracks(out, 3), 3)
	assert.Len(t, parseTracks(out, 0), 5)
}

func TestParseTracksSkipsMalformedLines(t *testing.T) {
	out := "volume: 80%\n" + line("a", "b", "", "", "t", "f") + "\n"
	assert.Len(t, parseTracks(out, 0), 1)
}

func TestParseStatusPlaying(t *testing.T) {
	out := line("David Bowie", "Low", "1", "3", "Sound and Vision", "bowie/low/03.flac") + "\n" +
		"[playing] #3/11   0:29/3:05 (15%)\n" +
		"volume: 80%   repeat: off   random: off   single: off   consume: off\n"

	st := parseStatus(out)
	assert.True(t, st.Playing)
	assert.Equal(t, 3, st.Index)
	assert.Equal(t, 11, st.Total)
	assert.Equal(t, 15, st.Percent)
	if assert.NotNil(t, st.Track) {
		assert.Equal(t, "Sound and Vision", st.Track.Title)
	}
}

func TestParseStatusPaused(t *testing.T) {
	out := line("a", "b", "", "", "t", "f") + "\n" +
		"[paused]  #1/2   0:00/2:00 (0%)\n"
	st := parseStatus(out)
	assert.False(t, st.Playing)
	assert.Equal(t, 1, st.Index)
}

func TestParseStatusStopped(t *testing.T) {
	st := parseStatus("volume: 80%   repeat: off   random: off   single: off   consume: off\n")
	assert.False(t, st.Playing)
	assert.Nil(t, st.Track)
	assert.Zero(t, st.Index)
}

func TestParseStats(t *testing.T) {
	out := `Artists:     64
Albums:      128
Songs:       1856

Play Time:    1 days, 2:17:21
Uptime:      3 days, 0:00:12
DB Updated:  Sat Mar 11 10:00:00 2017
DB Play Time: 5 days, 4:01:09
`
	assert.Equal(t, mpd.Stats{Artists: 64, Albums: 128, Songs: 1856}, parseStats(out))
}

func TestParseOutputs(t *testing.T) {
	out := "Output 1 (ALSA) is enabled\nOutput 2 (HTTP stream (vorbis)) is disabled\n"
	outputs := parseOutputs(out)
	assert.Equal(t, []mpd.Output{
		{ID: 1, Name: "ALSA", Enabled: true},
		{ID: 2, Name: "HTTP stream (vorbis)", Enabled: false},
	}, outputs)
}

func TestParseVersion(t *testing.T) {
	assert.Equal(t, "0.20.0", parseVersion("mpd version: 0.20.0\n"))
}
