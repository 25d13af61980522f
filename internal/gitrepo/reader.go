// Package gitrepo reads and enriches commit history through the git CLI.
// Every operation is read-only; process execution goes through a
// CommandRunner so tests can feed canned git output.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"gitdeck.app/cli/internal/classify"
	"gitdeck.app/cli/internal/model"
)

// fieldSep separates pretty-format fields. Git never emits it on its own
// and it cannot appear in hashes, author names, or timestamps.
const fieldSep = "\x1f"

const showFormat = "%H\x1f%an\x1f%at\x1f%s\x1f%b"

const defaultEnrichParallelism = 4

type Reader struct {
	repoPath string
	runner   CommandRunner
	parallel int
}

func NewReader(repoPath string, runner CommandRunner) *Reader {
	if runner == nil {
		runner = ExecCommandRunner{}
	}
	return &Reader{
		repoPath: repoPath,
		runner:   runner,
		parallel: defaultEnrichParallelism,
	}
}

// ListRecentCommits returns the count most recent commits, newest first,
// without enrichment. Intended for interactive range selection.
func (r *Reader) ListRecentCommits(ctx context.Context, count int) ([]model.CommitSummary, error) {
	if count <= 0 {
		count = 10
	}

	out, err := r.git(ctx, "log", "-n", strconv.Itoa(count), "--pretty=format:%H\x1f%h\x1f%an\x1f%at\x1f%s")
	if err != nil {
		if isEmptyHistory(err) {
			return nil, ErrEmptyRange
		}
		return nil, &RepositoryError{Op: "log", Path: r.repoPath, Err: err}
	}

	var summaries []model.CommitSummary
	for _, line := range splitLines(string(out)) {
		fields := strings.SplitN(line, fieldSep, 5)
		if len(fields) != 5 {
			continue
		}
		ts, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, &RepositoryError{Op: "log", Path: r.repoPath, Err: fmt.Errorf("parse timestamp %q: %w", fields[3], err)}
		}
		summaries = append(summaries, model.CommitSummary{
			ID:        fields[0],
			ShortID:   fields[1],
			Author:    fields[2],
			Timestamp: time.Unix(ts, 0),
			Subject:   fields[4],
		})
	}
	if len(summaries) == 0 {
		return nil, ErrEmptyRange
	}
	return summaries, nil
}

// ListRange returns the commits from fromID (inclusive) to HEAD
// (inclusive), oldest first, each enriched with aggregate stats and
// classified file changes. fromID may be abbreviated; it must resolve to a
// commit reachable from HEAD.
func (r *Reader) ListRange(ctx context.Context, fromID string) ([]model.Commit, error) {
	resolved, err := r.resolveCommit(ctx, fromID)
	if err != nil {
		return nil, err
	}

	entries, err := r.revList(ctx)
	if err != nil {
		return nil, err
	}

	start := -1
	for i, e := range entries {
		if e.hash == resolved {
			start = i
			break
		}
	}
	if start == -1 {
		// The object exists but is not an ancestor of HEAD.
		return nil, &NotFoundError{Ref: fromID}
	}

	return r.enrichAll(ctx, entries[start:])
}

// ListLast enriches the n most recent commits, oldest first. It is the
// default selection when the caller names no starting commit.
func (r *Reader) ListLast(ctx context.Context, n int) ([]model.Commit, error) {
	if n <= 0 {
		n = 10
	}

	entries, err := r.revList(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return r.enrichAll(ctx, entries)
}

type logEntry struct {
	hash   string
	parent string // first parent, empty for a root commit
}

func (r *Reader) revList(ctx context.Context) ([]logEntry, error) {
	out, err := r.git(ctx, "rev-list", "--reverse", "--parents", "HEAD")
	if err != nil {
		if isEmptyHistory(err) {
			return nil, ErrEmptyRange
		}
		return nil, &RepositoryError{Op: "rev-list", Path: r.repoPath, Err: err}
	}

	var entries []logEntry
	for _, line := range splitLines(string(out)) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		entry := logEntry{hash: fields[0]}
		if len(fields) > 1 {
			entry.parent = fields[1]
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyRange
	}
	return entries, nil
}

func (r *Reader) resolveCommit(ctx context.Context, ref string) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err == nil {
		return strings.TrimSpace(string(out)), nil
	}

	// rev-parse fails both for unknown refs and for broken repositories;
	// probe the repository itself to tell the two apart.
	if _, repoErr := r.git(ctx, "rev-parse", "--git-dir"); repoErr != nil {
		return "", &RepositoryError{Op: "rev-parse", Path: r.repoPath, Err: repoErr}
	}
	return "", &NotFoundError{Ref: ref}
}

// enrichAll runs per-commit enrichment with bounded parallelism. Results
// are written by index so the enriched list keeps log order regardless of
// completion order.
func (r *Reader) enrichAll(ctx context.Context, entries []logEntry) ([]model.Commit, error) {
	commits := make([]model.Commit, len(entries))
	errs := make([]error, len(entries))

	sem := make(chan struct{}, r.parallel)
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(idx int, e logEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			commits[idx], errs[idx] = r.enrich(ctx, e)
		}(i, entry)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &RepositoryError{Op: "enrich", Path: r.repoPath, Err: fmt.Errorf("commit %s: %w", entries[i].hash, err)}
		}
	}

	slog.DebugContext(ctx, "commit range enriched", "commits", len(commits))
	return commits, nil
}

func (r *Reader) enrich(ctx context.Context, entry logEntry) (model.Commit, error) {
	out, err := r.git(ctx, "show", "-s", "--format="+showFormat, entry.hash)
	if err != nil {
		return model.Commit{}, fmt.Errorf("show: %w", err)
	}

	fields := strings.SplitN(strings.TrimRight(string(out), "\n"), fieldSep, 5)
	if len(fields) != 5 {
		return model.Commit{}, fmt.Errorf("show: unexpected output for %s", entry.hash)
	}
	ts, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return model.Commit{}, fmt.Errorf("parse timestamp %q: %w", fields[2], err)
	}

	commit := model.Commit{
		ID:        fields[0],
		Author:    fields[1],
		Timestamp: time.Unix(ts, 0),
		Message:   fields[3],
		Body:      strings.TrimSpace(fields[4]),
	}

	// A root commit has nothing to diff against; it keeps zero stats
	// instead of failing the whole range.
	if entry.parent != "" {
		stats, changes, err := r.diffAgainst(ctx, entry.parent, entry.hash)
		if err != nil {
			return model.Commit{}, err
		}
		commit.Stats = stats
		commit.FileChanges = changes
	}

	commit.Category = classify.Categorize(commit.Message, commit.FileChanges)
	return commit, nil
}

func (r *Reader) diffAgainst(ctx context.Context, parent, hash string) (model.CommitStats, []model.FileChange, error) {
	statusOut, err := r.git(ctx, "diff", "--name-status", parent, hash)
	if err != nil {
		return model.CommitStats{}, nil, fmt.Errorf("diff --name-status: %w", err)
	}
	numstatOut, err := r.git(ctx, "diff", "--numstat", parent, hash)
	if err != nil {
		return model.CommitStats{}, nil, fmt.Errorf("diff --numstat: %w", err)
	}

	var changes []model.FileChange
	for _, line := range splitLines(string(statusOut)) {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		// Renames and copies list the destination path last.
		p := fields[len(fields)-1]
		changes = append(changes, model.FileChange{
			Path:     p,
			Status:   changeStatus(fields[0]),
			FileType: classify.ClassifyFile(p),
		})
	}

	stats := model.CommitStats{FilesChanged: len(changes)}
	for _, line := range splitLines(string(numstatOut)) {
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			continue
		}
		// Binary files report "-" for both counts; they still count as
		// changed files, just with no line delta.
		if ins, err := strconv.Atoi(fields[0]); err == nil {
			stats.Insertions += ins
		}
		if del, err := strconv.Atoi(fields[1]); err == nil {
			stats.Deletions += del
		}
	}
	return stats, changes, nil
}

func changeStatus(code string) model.ChangeStatus {
	switch {
	case strings.HasPrefix(code, "A"):
		return model.ChangeAdded
	case strings.HasPrefix(code, "D"):
		return model.ChangeDeleted
	default:
		return model.ChangeModified
	}
}

func (r *Reader) git(ctx context.Context, args ...string) ([]byte, error) {
	return r.runner.Run(ctx, Command{Name: "git", Args: args, Dir: r.repoPath})
}

func isEmptyHistory(err error) bool {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	return strings.Contains(exitErr.Stderr, "does not have any commits") ||
		strings.Contains(exitErr.Stderr, "unknown revision")
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
