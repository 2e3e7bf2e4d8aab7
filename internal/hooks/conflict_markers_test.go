package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentOf(s string) func() ([]byte, error) {
	return func() ([]byte, error) { return []byte(s), nil }
}

func mustNotRead(t *testing.T) func() ([]byte, error) {
	return func() ([]byte, error) {
		t.Fatal("content should not be read")
		return nil, nil
	}
}

func TestValidateConflictMarkers_DocumentationSkipsContent(t *testing.T) {
	paths := []string{
		"README.md",
		"docs/guide.rst",
		"notes.markdown",
		"a/b/c.rdoc",
		"docs/design.md",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			verdict, err := ValidateConflictMarkers(path, mustNotRead(t))
			require.NoError(t, err)
			assert.True(t, verdict.IsAccepted())
		})
	}
}

func TestValidateConflictMarkers_SuffixIsCaseSensitive(t *testing.T) {
	reads := 0
	verdict, err := ValidateConflictMarkers("README.MD", func() ([]byte, error) {
		reads++
		return []byte("<<<<<<< HEAD\n"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, reads)
	assert.False(t, verdict.IsAccepted())
}

func TestValidateConflictMarkers_SuffixNotWholeName(t *testing.T) {
	// "md" without a dot, and ".md" in the middle of the path, are not
	// documentation files.
	for _, path := range []string{"cmd", "x.md.txt", "docs.md/file.txt"} {
		verdict, err := ValidateConflictMarkers(path, contentOf("=======\n"))
		require.NoError(t, err)
		assert.False(t, verdict.IsAccepted(), path)
	}
}

func TestValidateConflictMarkers_BinaryAccepted(t *testing.T) {
	cases := map[string]string{
		"leading NUL":  "\x00<<<<<<< HEAD\n",
		"trailing NUL": ">>>>>>> branch\n=======\n\x00",
		"middle NUL":   "text\n=======\x00\nmore",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			verdict, err := ValidateConflictMarkers("image.png", contentOf(content))
			require.NoError(t, err)
			assert.True(t, verdict.IsAccepted())
		})
	}
}

func TestValidateConflictMarkers(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		accepted bool
	}{
		{"theirs marker", "file.txt", ">>>>>>> feature-branch\n", false},
		{"ours marker after first line", "a/b.txt", "line one\n<<<<<<< HEAD\nstuff\n", false},
		{"no markers", "a/b.txt", "no markers here\njust text\n", true},
		{"separator line", "main.go", "a\n=======\nb\n", false},
		{"separator only", "main.go", "=======\n", false},
		{"separator without newline", "main.go", "x\n=======", false},
		{"crlf separator", "main.go", "x\r\n=======\r\ny\r\n", false},
		{"theirs without space", "main.go", ">>>>>>>\n", true},
		{"theirs without space at end", "main.go", "foo\n>>>>>>>", true},
		{"separator with prefix", "main.go", "x=======\n", true},
		{"separator with suffix", "main.go", "======= x\n", true},
		{"eight equals", "main.go", "========\n", true},
		{"marker not at line start", "main.go", "text <<<<<<< HEAD\n", true},
		{"indented marker", "main.go", "  >>>>>>> branch\n", true},
		{"six angles", "main.go", "<<<<<< HEAD\n", true},
		{"empty", "main.go", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := ValidateConflictMarkers(tt.path, contentOf(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.accepted, verdict.IsAccepted())
		})
	}
}

func TestValidateConflictMarkers_Reason(t *testing.T) {
	verdict, err := ValidateConflictMarkers("file.txt", contentOf(">>>>>>> feature-branch\n"))
	require.NoError(t, err)
	assert.Equal(t, "Conflict markers were found in file 'file.txt'", verdict.Reason())

	verdict, err = ValidateConflictMarkers("a/b.txt", contentOf("line one\n<<<<<<< HEAD\nstuff\n"))
	require.NoError(t, err)
	info, ok := verdict.Rejection()
	require.True(t, ok)
	assert.Equal(t, "Conflict markers were found in file 'a/b.txt'", info.Description)
	assert.Equal(t, "line 2: <<<<<<< HEAD", info.LongDescription)
}

func TestValidateConflictMarkers_ReadsContentOnce(t *testing.T) {
	reads := 0
	_, err := ValidateConflictMarkers("main.go", func() ([]byte, error) {
		reads++
		return []byte("<<<<<<< HEAD\n=======\n>>>>>>> other\n"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, reads)
}

func TestValidateConflictMarkers_ErrorPassesThrough(t *testing.T) {
	readErr := errors.New("blob unavailable")
	_, err := ValidateConflictMarkers("main.go", func() ([]byte, error) {
		return nil, readErr
	})
	assert.Same(t, readErr, err)
}

func TestValidateConflictMarkers_Idempotent(t *testing.T) {
	content := "a\n<<<<<<< HEAD\nb\n=======\nc\n>>>>>>> x\n"
	first, err := ValidateConflictMarkers("f.c", contentOf(content))
	require.NoError(t, err)
	second, err := ValidateConflictMarkers("f.c", contentOf(content))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCheckConflictMarkers_AppliesDocumentationRule(t *testing.T) {
	assert.True(t, CheckConflictMarkers("CHANGES.md", []byte("=======\n")).IsAccepted())
	assert.False(t, CheckConflictMarkers("CHANGES.txt", []byte("=======\n")).IsAccepted())
}

func TestConflictMarkersHook_DeletedFileAccepted(t *testing.T) {
	file := NewFile("gone.txt", Deleted, nil)
	hc := newHookContext("repo", file, mustNotRead(t))

	verdict, err := ConflictMarkersHook{}.Run(context.Background(), hc)
	require.NoError(t, err)
	assert.True(t, verdict.IsAccepted())
}

func TestConflictMarkersHook_Rejects(t *testing.T) {
	file := NewFile("src/a.go", Modified, func(context.Context) ([]byte, error) {
		return []byte("<<<<<<< ours\n"), nil
	})
	hc := NewHookContext(context.Background(), "repo", file)

	verdict, err := ConflictMarkersHook{}.Run(context.Background(), hc)
	require.NoError(t, err)
	assert.Equal(t, "Conflict markers were found in file 'src/a.go'", verdict.Reason())
}
