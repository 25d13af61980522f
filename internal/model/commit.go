package model

import "time"

type CommitCategory string

type FileType string

type ChangeStatus string

const (
	CategoryFeature  CommitCategory = "feature"
	CategoryBugfix   CommitCategory = "bugfix"
	CategoryDocs     CommitCategory = "docs"
	CategoryTest     CommitCategory = "test"
	CategoryRefactor CommitCategory = "refactor"
	CategoryConfig   CommitCategory = "config"
	CategoryGeneral  CommitCategory = "general"
)

const (
	FileTypeCode   FileType = "code"
	FileTypeConfig FileType = "config"
	FileTypeTest   FileType = "test"
	FileTypeDoc    FileType = "doc"
	FileTypeOther  FileType = "other"
)

const (
	ChangeAdded    ChangeStatus = "added"
	ChangeModified ChangeStatus = "modified"
	ChangeDeleted  ChangeStatus = "deleted"
)

// FileChange records one file touched by a commit, with its status relative
// to the commit's first parent and a type classification by path.
type FileChange struct {
	Path     string       `json:"path"`
	Status   ChangeStatus `json:"status"`
	FileType FileType     `json:"file_type"`
}

type CommitStats struct {
	FilesChanged int `json:"files_changed"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
}

// Commit is one enriched history entry. The repository reader builds it
// once at read time; it is never mutated afterwards. Message holds the
// subject line only; extended text lives in Body.
type Commit struct {
	ID          string         `json:"id"`
	Message     string         `json:"message"`
	Body        string         `json:"body,omitempty"`
	Author      string         `json:"author"`
	Timestamp   time.Time      `json:"timestamp"`
	Stats       CommitStats    `json:"stats"`
	FileChanges []FileChange   `json:"file_changes,omitempty"`
	Category    CommitCategory `json:"category"`
}

// ShortID returns the abbreviated hash used in prompts and rendered decks.
func (c Commit) ShortID() string {
	if len(c.ID) <= 7 {
		return c.ID
	}
	return c.ID[:7]
}

// CommitSummary is the cheap listing row for interactive range selection.
// No enrichment is performed to produce it.
type CommitSummary struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"short_id"`
	Subject   string    `json:"subject"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}
