// Package rcfile edits shell rc files through named, marked blocks so that
// repeated runs replace their own lines instead of appending duplicates.
package rcfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/jaspreet-dot-casa/devbox/pkg/system"
)

const markerPrefix = "devbox"

const maxLinks = 40

var blockNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// File is a shell rc file such as ~/.bashrc.
type File struct {
	Path string
}

// New returns a File for path, expanding a leading ~.
func New(path string) *File {
	return &File{Path: system.ExpandHome(path)}
}

func startMarker(name string) string {
	return fmt.Sprintf("# >>> %s:%s >>>", markerPrefix, name)
}

func endMarker(name string) string {
	return fmt.Sprintf("# <<< %s:%s <<<", markerPrefix, name)
}

// Ensure writes content into the block called name, replacing the block if
// it exists and appending it otherwise. It reports whether the file changed.
func (f *File) Ensure(name, content string) (bool, error) {
	if !blockNameRe.MatchString(name) {
		return false, fmt.Errorf("invalid block name %q", name)
	}

	current, mode, err := f.read()
	if err != nil {
		return false, err
	}

	block := render(name, content)
	lines := splitLines(current)

	start, end, found := locate(lines, name)
	var updated []string
	if found {
		updated = append(updated, lines[:start]...)
		updated = append(updated, block...)
		updated = append(updated, lines[end+1:]...)
	} else {
		updated = append(updated, lines...)
		if len(updated) > 0 && strings.TrimSpace(updated[len(updated)-1]) != "" {
			updated = append(updated, "")
		}
		updated = append(updated, block...)
	}

	next := joinLines(updated)
	if next == current {
		return false, nil
	}
	return true, f.write(next, mode)
}

// Remove deletes the block called name. It reports whether the file changed.
func (f *File) Remove(name string) (bool, error) {
	current, mode, err := f.read()
	if err != nil {
		return false, err
	}

	lines := splitLines(current)
	start, end, found := locate(lines, name)
	if !found {
		return false, nil
	}

	updated := append([]string{}, lines[:start]...)
	updated = append(updated, lines[end+1:]...)
	return true, f.write(joinLines(updated), mode)
}

// Block returns the content of the block called name.
func (f *File) Block(name string) (string, bool, error) {
	current, _, err := f.read()
	if err != nil {
		return "", false, err
	}
	lines := splitLines(current)
	start, end, found := locate(lines, name)
	if !found {
		return "", false, nil
	}
	return strings.Join(lines[start+1:end], "\n"), true, nil
}

func (f *File) read() (string, os.FileMode, error) {
	path, err := f.target()
	if err != nil {
		return "", 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", 0644, nil
		}
		return "", 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return string(data), info.Mode().Perm(), nil
}

// write replaces the file the path points at, so a symlinked rc file keeps
// its link.
func (f *File) write(content string, mode os.FileMode) error {
	path, err := f.target()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewBufferString(content)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	return nil
}

// target follows symlinks from Path. A dangling link resolves to the path it
// names.
func (f *File) target() (string, error) {
	path := f.Path
	for i := 0; i < maxLinks; i++ {
		info, err := os.Lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return path, nil
			}
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}
		link, err := os.Readlink(path)
		if err != nil {
			return "", fmt.Errorf("failed to read link %s: %w", path, err)
		}
		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(path), link)
		}
		path = link
	}
	return "", fmt.Errorf("too many levels of symbolic links at %s", f.Path)
}

func render(name, content string) []string {
	block := []string{startMarker(name)}
	body := strings.TrimRight(content, "\n")
	if body != "" {
		block = append(block, strings.Split(body, "\n")...)
	}
	return append(block, endMarker(name))
}

// locate finds the start and end marker lines of a block. A start marker
// without a matching end marker is left alone.
func locate(lines []string, name string) (int, int, bool) {
	start := -1
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case startMarker(name):
			start = i
		case endMarker(name):
			if start != -1 {
				return start, i, true
			}
		}
	}
	return 0, 0, false
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
