// Package visibility tracks which exported documents are private. A document
// is private while its project-relative path is listed in the project's
// .gitignore, and public otherwise.
package visibility

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultFolder is the export folder name inside a project.
const DefaultFolder = "dialog"

// Tracker records the public/private state of exported documents.
type Tracker interface {
	// EnsureFolder creates the export folder of a project and returns its path.
	EnsureFolder(projectPath string) (string, error)
	// AddToIgnore marks a document private. Adding twice is a no-op.
	AddToIgnore(filePath, projectPath string) error
	// RemoveFromIgnore marks a document public. Removing an absent entry is a no-op.
	RemoveFromIgnore(filePath, projectPath string) error
	// IsPublic reports whether a document is public.
	IsPublic(filePath, projectPath string) (bool, error)
	// ListFiles returns the documents in the export folder, sorted by name.
	ListFiles(projectPath string) ([]string, error)
}

// Gitignore is a Tracker backed by <project>/.gitignore.
type Gitignore struct {
	// Folder is the export folder name. Defaults to DefaultFolder.
	Folder string
}

var _ Tracker = (*Gitignore)(nil)

// Dir returns the export folder of a project.
func (g *Gitignore) Dir(projectPath string) string {
	folder := g.Folder
	if folder == "" {
		folder = DefaultFolder
	}
	return filepath.Join(projectPath, folder)
}

func (g *Gitignore) EnsureFolder(projectPath string) (string, error) {
	dir := g.Dir(projectPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export folder: %w", err)
	}
	return dir, nil
}

func (g *Gitignore) AddToIgnore(filePath, projectPath string) error {
	entry, err := relEntry(filePath, projectPath)
	if err != nil {
		return err
	}

	path := filepath.Join(projectPath, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if hasEntry(string(data), entry) {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	_, err = f.WriteString(entry + "\n")
	return err
}

func (g *Gitignore) RemoveFromIgnore(filePath, projectPath string) error {
	entry, err := relEntry(filePath, projectPath)
	if err != nil {
		return err
	}

	path := filepath.Join(projectPath, ".gitignore")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !hasEntry(string(data), entry) {
		return nil
	}

	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != entry {
			kept = append(kept, line)
		}
	}
	return os.WriteFile(path, []byte(strings.Join(kept, "\n")), 0o644)
}

func (g *Gitignore) IsPublic(filePath, projectPath string) (bool, error) {
	entry, err := relEntry(filePath, projectPath)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(filepath.Join(projectPath, ".gitignore"))
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !hasEntry(string(data), entry), nil
}

// ListFiles returns the absolute paths of the Markdown documents in the
// export folder. A missing folder yields no files.
func (g *Gitignore) ListFiles(projectPath string) ([]string, error) {
	dir := g.Dir(projectPath)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read export folder: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// relEntry is the .gitignore line for filePath: slash-separated and relative
// to the project root. Relative arguments are resolved against the working
// directory, the same way Dir and ListFiles build them.
func relEntry(filePath, projectPath string) (string, error) {
	absProject, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", projectPath, err)
	}
	absFile, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", filePath, err)
	}
	filePath, projectPath = absFile, absProject

	rel, err := filepath.Rel(projectPath, filePath)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", filePath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", filePath, projectPath)
	}
	return filepath.ToSlash(rel), nil
}

func hasEntry(content, entry string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == entry {
			return true
		}
	}
	return false
}
