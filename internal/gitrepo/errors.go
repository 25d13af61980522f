package gitrepo

import (
	"errors"
	"fmt"
)

// ErrEmptyRange reports a repository or selection with no commits to
// present. It is a terminal condition for the invocation, not a bug.
var ErrEmptyRange = errors.New("no commits in selected range")

// RepositoryError reports an unreadable or missing repository. Fatal for
// the invocation.
type RepositoryError struct {
	Op   string
	Path string
	Err  error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("git %s in %s: %v", e.Op, e.Path, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// NotFoundError reports a starting commit that does not exist in the
// history reachable from HEAD.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("commit %q not found in history", e.Ref)
}
