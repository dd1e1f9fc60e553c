package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return &Catalog{
		Version: ManifestVersion,
		Entries: []Entry{
			{Name: "git", Category: CategoryGit, Install: []Method{{Apt: "git"}}},
			{Name: "nodejs", Category: CategoryRuntime, Install: []Method{{Apt: "nodejs npm"}}},
			{Name: "fzf", Category: CategoryCLI, Install: []Method{{Apt: "fzf"}}},
			{Name: "gemini-cli", Category: CategoryAI, DependsOn: []string{"nodejs"}, Install: []Method{{Npm: "@google/gemini-cli"}}},
			{Name: "mcp-tool", Category: "Custom", DependsOn: []string{"gemini-cli"}, Install: []Method{{Npm: "mcp-tool"}}},
			{Name: "misc", Install: []Method{{Shell: "true"}}},
		},
	}
}

func TestCatalog_Get(t *testing.T) {
	c := testCatalog()

	e := c.Get("fzf")
	require.NotNil(t, e)
	assert.Equal(t, "fzf", e.Name)

	e.Name = "changed"
	assert.Equal(t, "fzf", c.Entries[2].Name, "Get should return a copy")

	assert.Nil(t, c.Get("missing"))
}

func TestCatalog_Names(t *testing.T) {
	assert.Equal(t, []string{"git", "nodejs", "fzf", "gemini-cli", "mcp-tool", "misc"}, testCatalog().Names())
	assert.Equal(t, 6, testCatalog().Len())
}

func TestCatalog_Categories(t *testing.T) {
	c := testCatalog()

	assert.Equal(t, []Category{CategoryGit, CategoryCLI, CategoryRuntime, CategoryAI, "Custom"}, c.Categories())

	groups := c.ByCategory()
	assert.Len(t, groups[CategoryCLI], 2, "uncategorised entries fall under CLI tools")
	assert.Equal(t, "fzf", groups[CategoryCLI][0].Name)
	assert.Equal(t, "misc", groups[CategoryCLI][1].Name)
}

func TestCatalog_Select_PullsInDependencies(t *testing.T) {
	c := testCatalog()

	selected, err := c.Select("mcp-tool", "git")
	require.NoError(t, err)

	assert.Equal(t, []string{"git", "nodejs", "gemini-cli", "mcp-tool"}, selected.Names())
	assert.Equal(t, c.Version, selected.Version)
}

func TestCatalog_Select_Duplicates(t *testing.T) {
	selected, err := testCatalog().Select("fzf", "fzf")
	require.NoError(t, err)
	assert.Equal(t, []string{"fzf"}, selected.Names())
}

func TestCatalog_Select_Unknown(t *testing.T) {
	_, err := testCatalog().Select("nope")
	assert.EqualError(t, err, `unknown item "nope"`)
	assert.ErrorIs(t, err, ErrUnknownItem)

	c := testCatalog()
	c.Entries[3].DependsOn = []string{"ghost"}
	_, err = c.Select("gemini-cli")
	assert.EqualError(t, err, `gemini-cli depends on unknown item "ghost"`)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestCatalog_Without_DropsDependents(t *testing.T) {
	c := testCatalog()

	assert.Equal(t, []string{"git", "fzf", "misc"}, c.Without("nodejs").Names())
	assert.Equal(t, []string{"git", "nodejs", "fzf", "gemini-cli", "mcp-tool"}, c.Without("misc", "unknown").Names())
	assert.Len(t, c.Entries, 6, "Without must not modify the receiver")
}

func TestEntry_RequiresConfirmation(t *testing.T) {
	no := false
	yes := true

	assert.True(t, Entry{}.RequiresConfirmation())
	assert.True(t, Entry{Confirm: &yes}.RequiresConfirmation())
	assert.False(t, Entry{Confirm: &no}.RequiresConfirmation())
}

func TestMethod_Kinds(t *testing.T) {
	assert.Equal(t, []string{"apt"}, Method{Apt: "git"}.Kinds())
	assert.Equal(t, []string{"brew", "shell"}, Method{Brew: "x", Shell: "y"}.Kinds())
	assert.Empty(t, Method{Apt: "  "}.Kinds())
}
