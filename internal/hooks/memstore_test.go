package hooks

import (
	"context"
	"sort"
	"sync"
)

// memoryStore is an in-memory file content store that counts reads.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	reads   map[string]int
}

type memoryEntry struct {
	ty      ChangeType
	content []byte
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		reads:   make(map[string]int),
	}
}

func (s *memoryStore) put(path string, ty ChangeType, content string) {
	s.entries[path] = memoryEntry{ty: ty, content: []byte(content)}
}

func (s *memoryStore) fail(path string, err error) {
	s.entries[path] = memoryEntry{ty: Modified, err: err}
}

func (s *memoryStore) delete(path string) {
	s.entries[path] = memoryEntry{ty: Deleted}
}

func (s *memoryStore) readCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[path]
}

func (s *memoryStore) files() []File {
	paths := make([]string, 0, len(s.entries))
	for p := range s.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		entry := s.entries[p]
		if entry.ty == Deleted {
			files = append(files, NewFile(p, Deleted, nil))
			continue
		}
		files = append(files, NewFile(p, entry.ty, func(ctx context.Context) ([]byte, error) {
			s.mu.Lock()
			s.reads[p]++
			s.mu.Unlock()
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return entry.content, entry.err
		}))
	}
	return files
}
