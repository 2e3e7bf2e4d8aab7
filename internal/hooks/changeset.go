package hooks

import (
	"context"
	"fmt"
)

// Changeset is a commit about to be pushed.
type Changeset struct {
	ID      string
	Author  string
	Message string
	Parents []string
}

// ShortID is the abbreviated commit id used in reports.
func (cs Changeset) ShortID() string {
	if len(cs.ID) > 12 {
		return cs.ID[:12]
	}
	return cs.ID
}

// IsMerge reports whether the changeset has more than one parent.
func (cs Changeset) IsMerge() bool {
	return len(cs.Parents) > 1
}

// ChangesetHook validates commit level metadata: author, message, parents.
type ChangesetHook interface {
	Name() string
	RunChangeset(ctx context.Context, repoName string, cs Changeset) (Verdict, error)
}

// MessageConflictMarkersHook rejects commits whose message still carries
// conflict markers, which happens when a conflicted file is pasted into the
// message of a merge.
type MessageConflictMarkersHook struct{}

const MessageConflictMarkersHookName = "message_conflict_markers"

func (MessageConflictMarkersHook) Name() string { return MessageConflictMarkersHookName }

func (MessageConflictMarkersHook) RunChangeset(_ context.Context, _ string, cs Changeset) (Verdict, error) {
	markers := FindConflictMarkers([]byte(cs.Message))
	if len(markers) == 0 {
		return Accepted(), nil
	}
	return Rejected(RejectionInfo{
		Description:     fmt.Sprintf("Conflict markers were found in the message of commit %s", cs.ShortID()),
		LongDescription: describeMarkers(markers),
	}), nil
}
