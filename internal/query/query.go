// Package query tokenizes the free text Alfred hands the workflow into
// the alternating type/value argument list MPD's search commands expect.
package query

import "strings"

// Parse splits a launcher query into type/value pairs.
//
// A query without any colon searches the "any" type as a whole:
//
//	"low"                  -> ["any", "low"]
//
// Otherwise the query is split on whitespace. "tag:value" words name the
// type explicitly; the first bare word is searched as "any" and later
// bare words ride along as additional values:
//
//	"artist:Bowie"         -> ["artist", "Bowie"]
//	"heroes artist:Bowie"  -> ["any", "heroes", "artist", "Bowie"]
func Parse(q string) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	if !strings.Contains(q, ":") {
		return []string{"any", q}
	}

	type pair struct {
		typ  string
		word string
	}
	var pairs []pair
	for _, word := range strings.Fields(q) {
		if strings.Contains(word, ":") {
			typ, val, _ := strings.Cut(word, ":")
			pairs = append(pairs, pair{typ, val})
		} else {
			pairs = append(pairs, pair{"", word})
		}
	}

	var args []string
	anySeeded := false
	for _, p := range pairs {
		if p.typ != "" {
			args = append(args, p.typ)
		} else if !anySeeded {
			args = append(args, "any")
			anySeeded = true
		}
		args = append(args, p.word)
	}
	return args
}
