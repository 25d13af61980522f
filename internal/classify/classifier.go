// Package classify derives commit categories and file types from commit
// messages and changed paths. Everything here is pure and deterministic so
// the narrative and fallback layers can be tested without a repository.
package classify

import (
	"path"
	"strings"

	"gitdeck.app/cli/internal/model"
)

// prefixCategories maps conventional-commit leading tokens to categories.
// Prefix rules always dominate file-type signals.
var prefixCategories = map[string]model.CommitCategory{
	"feat":     model.CategoryFeature,
	"fix":      model.CategoryBugfix,
	"docs":     model.CategoryDocs,
	"test":     model.CategoryTest,
	"refactor": model.CategoryRefactor,
}

var codeExtensions = map[string]struct{}{
	".go": {}, ".js": {}, ".ts": {}, ".tsx": {}, ".jsx": {}, ".py": {},
	".rb": {}, ".java": {}, ".c": {}, ".h": {}, ".cpp": {}, ".hpp": {},
	".cs": {}, ".rs": {}, ".php": {}, ".swift": {}, ".kt": {}, ".scala": {},
	".sh": {}, ".sql": {}, ".css": {}, ".scss": {}, ".html": {}, ".vue": {},
}

// Categorize maps a commit message plus its classified file changes to a
// commit category. The message prefix is matched against the subject's
// leading token, up to the first colon, space, or scope parenthesis,
// case-insensitively. When no prefix matches, the file types decide:
// test beats doc beats config, anything else is general.
func Categorize(message string, files []model.FileChange) model.CommitCategory {
	if cat, ok := prefixCategories[leadingToken(message)]; ok {
		return cat
	}

	var hasTest, hasDoc, hasConfig bool
	for _, f := range files {
		switch f.FileType {
		case model.FileTypeTest:
			hasTest = true
		case model.FileTypeDoc:
			hasDoc = true
		case model.FileTypeConfig:
			hasConfig = true
		}
	}

	switch {
	case hasTest:
		return model.CategoryTest
	case hasDoc:
		return model.CategoryDocs
	case hasConfig:
		return model.CategoryConfig
	default:
		return model.CategoryGeneral
	}
}

// ClassifyFile types a changed path. Checks run in fixed order so a path
// matching several signals always resolves the same way: doc, then config,
// then test, then code.
func ClassifyFile(p string) model.FileType {
	lower := strings.ToLower(p)
	name := path.Base(lower)
	ext := path.Ext(name)

	switch {
	case ext == ".md" || ext == ".txt" || ext == ".rst" || strings.Contains(name, "readme"):
		return model.FileTypeDoc
	case ext == ".json" || ext == ".yaml" || ext == ".yml" || ext == ".toml" ||
		strings.Contains(name, "config") || strings.Contains(name, "package"):
		return model.FileTypeConfig
	case strings.Contains(lower, "test") || strings.Contains(lower, "spec"):
		return model.FileTypeTest
	default:
		if _, ok := codeExtensions[ext]; ok {
			return model.FileTypeCode
		}
		return model.FileTypeOther
	}
}

func leadingToken(message string) string {
	subject := message
	if i := strings.IndexByte(subject, '\n'); i >= 0 {
		subject = subject[:i]
	}
	subject = strings.TrimSpace(strings.ToLower(subject))
	if i := strings.IndexAny(subject, ": ("); i >= 0 {
		subject = subject[:i]
	}
	return subject
}
