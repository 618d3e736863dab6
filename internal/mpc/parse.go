package mpc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/avhall/alfred-mpd/internal/mpd"
)

// delimiter separates fields in the track wire format. MPD metadata can
// contain almost anything, so the separator is a sequence no tag should
// hold: non-breaking space, eighth note, non-breaking space.
const delimiter = " ♪ "

// resultFormat is passed to mpc -f so track listings carry every field
// the workflow needs on one line each.
const resultFormat = "%artist%" + delimiter +
	"%album%" + delimiter +
	"%disc%" + delimiter +
	"%track%" + delimiter +
	"%title%" + delimiter +
	"%file%"

func splitLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimRight(l, "\r"); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// parseTracks splits formatted mpc output into tracks. A non-positive
// max keeps every line.
func parseTracks(out string, max int) []mpd.Track {
	var tracks []mpd.Track
	for _, line := range splitLines(out) {
		t, ok := parseTrackLine(line)
		if !ok {
			continue
		}
		tracks = append(tracks, t)
		if max > 0 && len(tracks) >= max {
			break
		}
	}
	return tracks
}

func parseTrackLine(line string) (mpd.Track, bool) {
	parts := strings.Split(line, delimiter)
	if len(parts) != 6 {
		return mpd.Track{}, false
	}
	return mpd.Track{
		Artist:  parts[0],
		Album:   parts[1],
		Disc:    parts[2],
		TrackNo: parts[3],
		Title:   parts[4],
		File:    parts[5],
	}, true
}

// statusRe matches mpc's playback line, e.g.
//
//	[playing] #2/12   1:02/4:15 (24%)
var statusRe = regexp.MustCompile(`\[([a-z]+)\]\s+#(\d+)/(\d+)\s+.+\((\d+)%\)`)

// parseStatus reads `mpc status -f <resultFormat>` output. When the
// player is stopped mpc prints no playback line and the zero Status is
// returned.
func parseStatus(out string) mpd.Status {
	var st mpd.Status
	for i, line := range strings.Split(out, "\n") {
		if m := statusRe.FindStringSubmatch(line); m != nil {
			st.Playing = m[1] == "playing"
			st.Index, _ = strconv.Atoi(m[2])
			st.Total, _ = strconv.Atoi(m[3])
			st.Percent, _ = strconv.Atoi(m[4])
			continue
		}
		// first line is the formatted current track, when there is one
		if i == 0 {
			if t, ok := parseTrackLine(strings.TrimSpace(line)); ok {
				st.Track = &t
			}
		}
	}
	return st
}

// parseStats reads the Artists/Albums/Songs counters out of `mpc stats`.
func parseStats(out string) mpd.Stats {
	var stats mpd.Stats
	for _, line := range strings.Split(out, "\n") {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Artists":
			stats.Artists = n
		case "Albums":
			stats.Albums = n
		case "Songs":
			stats.Songs = n
		}
	}
	return stats
}

// outputRe matches `mpc outputs` lines, e.g.
//
//	Output 1 (ALSA) is enabled
var outputRe = regexp.MustCompile(`^Output (\d+) \((.+)\) is (enabled|disabled)$`)

func parseOutputs(out string) []mpd.Output {
	var outputs []mpd.Output
	for _, line := range splitLines(out) {
		m := outputRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, _ := strconv.Atoi(m[1])
		outputs = append(outputs, mpd.Output{ID: id, Name: m[2], Enabled: m[3] == "enabled"})
	}
	return outputs
}

// parseVersion strips the "mpd version:" prefix.
func parseVersion(out string) string {
	i := strings.LastIndex(out, ":")
	return strings.TrimSpace(out[i+1:])
}
