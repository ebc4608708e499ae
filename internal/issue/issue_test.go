// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestGet_AllCatalogedIdsResolve(t *testing.T) {
	t.Parallel()

	ids := []Id{
		CookfileNotFoundId,
		CookfileParseErrorId,
		RecipeNotFoundId,
		RecipeArgumentsId,
		VariableResolutionId,
		DependencyCycleId,
		RecipeExecutionFailedId,
		RuntimeNotAvailableId,
		ShellNotFoundId,
		ConfigLoadFailedId,
	}
	for _, id := range ids {
		i := Get(id)
		if i == nil {
			t.Errorf("id %d has no catalog entry", id)
			continue
		}
		if i.Id() != id {
			t.Errorf("id %d resolves to entry %d", id, i.Id())
		}
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("id %d has an empty message", id)
		}
	}
}

func TestGet_UnknownIdReturnsNil(t *testing.T) {
	t.Parallel()

	if Get(Id(9999)) != nil {
		t.Error("unknown id should return nil")
	}
}

func TestValues_MatchesCatalogSize(t *testing.T) {
	t.Parallel()

	if len(Values()) != len(issues) {
		t.Errorf("Values() returned %d entries, catalog has %d", len(Values()), len(issues))
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	out, err := Get(DependencyCycleId).Render("notty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Dependency cycle") {
		t.Errorf("rendered output should keep the heading, got %q", out)
	}
}
