// Package hooks runs content validation hooks over the files touched by a
// proposed change and collects a verdict for each of them.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrDeleted = errors.New("file was deleted")

type ChangeType int

const (
	Added ChangeType = iota
	Modified
	Deleted
)

func (t ChangeType) String() string {
	switch t {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ContentFunc fetches the full content of a file.
type ContentFunc func(ctx context.Context) ([]byte, error)

// File is a file changed by a proposed commit or push. Path is repository
// relative and uses forward slashes.
type File struct {
	Path    string
	Type    ChangeType
	content ContentFunc
}

func NewFile(path string, ty ChangeType, content ContentFunc) File {
	return File{Path: path, Type: ty, content: content}
}

// Content fetches the file content. Deleted files have none.
func (f File) Content(ctx context.Context) ([]byte, error) {
	if f.Type == Deleted || f.content == nil {
		return nil, fmt.Errorf("%s: %w", f.Path, ErrDeleted)
	}
	return f.content(ctx)
}

// HookContext is what a FileHook sees: the repository being validated and
// the file under test. Content is fetched on first use and shared by every
// hook that runs against the same context.
type HookContext struct {
	RepoName string
	File     File
	content  func() ([]byte, error)
}

func NewHookContext(ctx context.Context, repoName string, file File) HookContext {
	return newHookContext(repoName, file, func() ([]byte, error) {
		return file.Content(ctx)
	})
}

func newHookContext(repoName string, file File, fetch func() ([]byte, error)) HookContext {
	return HookContext{
		RepoName: repoName,
		File:     file,
		content:  sync.OnceValues(fetch),
	}
}

func (hc HookContext) Content() ([]byte, error) {
	if hc.content == nil {
		return nil, fmt.Errorf("%s: %w", hc.File.Path, ErrDeleted)
	}
	return hc.content()
}

// FileHook validates a single changed file.
type FileHook interface {
	Name() string
	Run(ctx context.Context, hc HookContext) (Verdict, error)
}
