package tui

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRenderSnapshot(t *testing.T) {
	ui := domain.NewUIState()
	ui.IsEditMode = true
	ui.EditingRecipeIndex = domain.Ptr(0)
	ui.DeleteConfirmation = domain.DeleteConfirmation{IsOpen: true, RecipeIndex: domain.Ptr(1)}
	ui.RolledRecipe = &domain.Recipe{Name: "Soup", Instructions: "Boil"}

	snap := domain.Snapshot{
		Version: 4,
		Recipes: domain.RecipeList{
			{Name: "Toast", Instructions: "Bread in toaster"},
			{Name: "Soup", Instructions: "Boil"},
			{Name: "Salad", Instructions: "Chop"},
		},
		UI: ui,
	}

	var buf bytes.Buffer
	RenderSnapshot(&buf, snap, domain.SyncApplied)
	newGoldie(t).Assert(t, "snapshot", buf.Bytes())
}

func TestRenderSnapshot_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderSnapshot(&buf, domain.Snapshot{UI: domain.NewUIState()}, "")
	newGoldie(t).Assert(t, "snapshot_empty", buf.Bytes())
}

func TestRenderDiff(t *testing.T) {
	old := &domain.Snapshot{
		Version: 1,
		Recipes: domain.RecipeList{{Name: "Toast", Instructions: "Bread"}},
		UI:      domain.NewUIState(),
	}
	next := &domain.Snapshot{
		Version: 2,
		Recipes: domain.RecipeList{
			{Name: "Toast", Instructions: "Bread"},
			{Name: "Soup", Instructions: "Boil"},
		},
		UI: domain.NewUIState().Apply(domain.UIPatch{
			CurrentTab:   domain.Ptr(domain.TabInput),
			RolledRecipe: &domain.Recipe{Name: "Toast", Instructions: "Bread"},
		}),
	}

	var buf bytes.Buffer
	RenderDiff(&buf, domain.Diff(old, next))
	newGoldie(t).Assert(t, "diff_append", buf.Bytes())
}

func TestDiffLines_Rewrite(t *testing.T) {
	old := &domain.Snapshot{
		Version: 5,
		Recipes: domain.RecipeList{{Name: "A", Instructions: "a"}, {Name: "B", Instructions: "b"}},
		UI:      domain.NewUIState().Apply(domain.SetRolled(&domain.Recipe{Name: "A", Instructions: "a"})),
	}
	next := &domain.Snapshot{
		Version: 6,
		Recipes: domain.RecipeList{{Name: "B", Instructions: "b"}},
		UI:      domain.NewUIState(),
	}

	assert.Equal(t, []string{
		"v6 recipes replaced (1)",
		"v6 rolled cleared",
	}, DiffLines(domain.Diff(old, next)))
	assert.Nil(t, DiffLines(nil))
}

func TestRecipeMarkdown(t *testing.T) {
	md := RecipeMarkdown(domain.Recipe{Name: "Toast", Instructions: "Slice bread\n\n  Toast it  "})
	assert.Equal(t, "# Toast\n\nSlice bread\n\nToast it\n\n", md)
}

func TestPrintBanner_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.False(t, IsTerminal(&buf))
}
