package system

import (
	"context"
	"errors"
	"strings"
)

// MockExecutor is a function-field CommandExecutor for tests. Unset
// functions fall back to permissive defaults.
type MockExecutor struct {
	LookPathFunc       func(file string) (string, error)
	RunFunc            func(name string, args ...string) (string, error)
	CombinedOutputFunc func(name string, args ...string) ([]byte, error)
	FileExistsFunc     func(path string) bool
	WritableFunc       func(path string) bool
	Root               bool

	// Calls records every Run and CombinedOutput as "name arg1 arg2".
	Calls []string
}

func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

func (m *MockExecutor) Run(_ context.Context, name string, args ...string) (string, error) {
	m.record(name, args)
	if m.RunFunc != nil {
		return m.RunFunc(name, args...)
	}
	return "1.0.0", nil
}

func (m *MockExecutor) CombinedOutput(_ context.Context, name string, args ...string) ([]byte, error) {
	m.record(name, args)
	if m.CombinedOutputFunc != nil {
		return m.CombinedOutputFunc(name, args...)
	}
	return nil, nil
}

func (m *MockExecutor) FileExists(path string) bool {
	if m.FileExistsFunc != nil {
		return m.FileExistsFunc(path)
	}
	return true
}

func (m *MockExecutor) Writable(path string) bool {
	if m.WritableFunc != nil {
		return m.WritableFunc(path)
	}
	return true
}

func (m *MockExecutor) IsRoot() bool {
	return m.Root
}

func (m *MockExecutor) record(name string, args []string) {
	m.Calls = append(m.Calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
}

// OnPath returns a LookPathFunc that only finds the given commands.
func OnPath(commands ...string) func(string) (string, error) {
	set := make(map[string]bool, len(commands))
	for _, c := range commands {
		set[c] = true
	}
	return func(file string) (string, error) {
		if set[file] {
			return "/usr/bin/" + file, nil
		}
		return "", errors.New("not found")
	}
}
