package hooks

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Conflict marker syntax shows up in prose examples, so documentation files
// are never checked.
var documentationSuffixes = []string{".rst", ".markdown", ".md", ".rdoc"}

// NeedsContent reports whether the conflict marker check has to look at the
// content of path. It is false for documentation files, which are always
// accepted.
func NeedsContent(path string) bool {
	for _, suffix := range documentationSuffixes {
		if strings.HasSuffix(path, suffix) {
			return false
		}
	}
	return true
}

// CheckConflictMarkers decides whether content stored at path is free of
// unresolved merge conflict markers. Documentation files and binary content
// (anything with a NUL byte) are accepted.
func CheckConflictMarkers(path string, content []byte) Verdict {
	if !NeedsContent(path) {
		return Accepted()
	}
	if bytes.IndexByte(content, 0) >= 0 {
		return Accepted()
	}

	markers := FindConflictMarkers(content)
	if len(markers) == 0 {
		return Accepted()
	}
	return Rejected(RejectionInfo{
		Description:     fmt.Sprintf("Conflict markers were found in file '%s'", path),
		LongDescription: describeMarkers(markers),
	})
}

// ValidateConflictMarkers is CheckConflictMarkers with lazily loaded
// content. content is called at most once and not at all for documentation
// files. Its error is returned as is.
func ValidateConflictMarkers(path string, content func() ([]byte, error)) (Verdict, error) {
	if !NeedsContent(path) {
		return Accepted(), nil
	}
	data, err := content()
	if err != nil {
		return Verdict{}, err
	}
	return CheckConflictMarkers(path, data), nil
}

// ConflictMarkersHook rejects files that still contain merge conflict
// markers.
type ConflictMarkersHook struct{}

const ConflictMarkersHookName = "conflict_markers"

func (ConflictMarkersHook) Name() string { return ConflictMarkersHookName }

func (ConflictMarkersHook) Run(_ context.Context, hc HookContext) (Verdict, error) {
	if hc.File.Type == Deleted {
		return Accepted(), nil
	}
	return ValidateConflictMarkers(hc.File.Path, hc.Content)
}
