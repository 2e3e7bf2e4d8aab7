package hooks

import (
	"bytes"
	"fmt"
	"strings"
)

type MarkerKind int

const (
	MarkerOurs MarkerKind = iota
	MarkerSeparator
	MarkerTheirs
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerOurs:
		return "ours"
	case MarkerSeparator:
		return "separator"
	case MarkerTheirs:
		return "theirs"
	default:
		return "unknown"
	}
}

// Marker is a single conflict marker line. Line is 1-based.
type Marker struct {
	Line int
	Kind MarkerKind
	Text string
}

var (
	oursPrefix   = []byte("<<<<<<< ")
	theirsPrefix = []byte(">>>>>>> ")
	separator    = []byte("=======")
)

// FindConflictMarkers returns every line of content that is a merge
// conflict marker: a line starting with seven '<' or seven '>' followed by a
// space, or a line consisting of exactly seven '='. A trailing "\r" is
// treated as part of the line break.
func FindConflictMarkers(content []byte) []Marker {
	var markers []Marker
	n := 0
	for line := range bytes.Lines(content) {
		n++
		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))

		kind, ok := markerKind(line)
		if !ok {
			continue
		}
		markers = append(markers, Marker{Line: n, Kind: kind, Text: string(line)})
	}
	return markers
}

func markerKind(line []byte) (MarkerKind, bool) {
	switch {
	case bytes.HasPrefix(line, oursPrefix):
		return MarkerOurs, true
	case bytes.HasPrefix(line, theirsPrefix):
		return MarkerTheirs, true
	case bytes.Equal(line, separator):
		return MarkerSeparator, true
	}
	return 0, false
}

func describeMarkers(markers []Marker) string {
	var b strings.Builder
	for i, m := range markers {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "line %d: %s", m.Line, m.Text)
	}
	return b.String()
}
