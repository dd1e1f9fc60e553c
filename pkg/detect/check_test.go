package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/system"
)

func TestInspect_WithVersion(t *testing.T) {
	exec := &system.MockExecutor{
		LookPathFunc: system.OnPath("zoxide"),
		RunFunc: func(string, ...string) (string, error) {
			return "zoxide 0.9.4", nil
		},
	}

	check := Inspect(context.Background(), "zoxide", "Smarter cd", &Command{Exec: exec, Names: []string{"zoxide"}})

	assert.Equal(t, "zoxide", check.Name)
	assert.Equal(t, "Smarter cd", check.Description)
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "0.9.4", check.Message)
}

func TestInspect_Missing(t *testing.T) {
	exec := &system.MockExecutor{LookPathFunc: system.OnPath()}

	check := Inspect(context.Background(), "fzf", "", &Command{Exec: exec, Names: []string{"fzf"}})

	assert.Equal(t, StatusMissing, check.Status)
	assert.Equal(t, "not installed", check.Message)
}

func TestInspect_PresentWithoutVersion(t *testing.T) {
	present := installer.DetectFunc(func(context.Context) installer.Presence { return installer.Present })

	check := Inspect(context.Background(), "desktop", "", present)

	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "installed", check.Message)
}

func TestInspect_Errors(t *testing.T) {
	panicky := installer.DetectFunc(func(context.Context) installer.Presence { panic("boom") })

	assert.Equal(t, StatusError, Inspect(context.Background(), "x", "", nil).Status)
	assert.Equal(t, StatusError, Inspect(context.Background(), "y", "", panicky).Status)
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]Check{
		{Status: StatusOK},
		{Status: StatusOK},
		{Status: StatusMissing},
		{Status: StatusError},
	})

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.OK)
	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, 1, summary.Errors)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "missing", StatusMissing.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unknown", Status(42).String())
}
