package git

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// PushUpdate is one "<local ref> <local sha> <remote ref> <remote sha>"
// line git writes to the standard input of a pre-push hook.
type PushUpdate struct {
	LocalRef  string
	LocalSHA  string
	RemoteRef string
	RemoteSHA string
}

func isZeroSHA(sha string) bool {
	return strings.Trim(sha, "0") == ""
}

// Deletes reports whether the update removes the remote ref.
func (u PushUpdate) Deletes() bool {
	return isZeroSHA(u.LocalSHA)
}

// RevListArgs selects the commits the update would send. A ref new to the
// remote sends everything not already reachable from a remote branch.
func (u PushUpdate) RevListArgs() []string {
	if isZeroSHA(u.RemoteSHA) {
		return []string{u.LocalSHA, "--not", "--remotes"}
	}
	return []string{u.RemoteSHA + ".." + u.LocalSHA}
}

// ParsePushUpdates reads pre-push hook input.
func ParsePushUpdates(r io.Reader) ([]PushUpdate, error) {
	var updates []PushUpdate
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed pre-push line %q", scanner.Text())
		}
		updates = append(updates, PushUpdate{
			LocalRef:  fields[0],
			LocalSHA:  fields[1],
			RemoteRef: fields[2],
			RemoteSHA: fields[3],
		})
	}

	return updates, scanner.Err()
}

// PushedCommits lists, oldest first, every commit the updates would send.
// Commits reachable from several updates are listed once.
func (repo *GitRepo) PushedCommits(ctx context.Context, updates []PushUpdate) ([]string, error) {
	seen := make(map[string]bool)
	var commits []string

	for _, u := range updates {
		if u.Deletes() {
			continue
		}
		ids, err := repo.RevList(ctx, u.RevListArgs())
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				commits = append(commits, id)
			}
		}
	}
	return commits, nil
}
