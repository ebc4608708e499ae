// SPDX-License-Identifier: MPL-2.0

package cookfile

type (
	// Binding is a top-level variable binding: name := expression.
	// Bindings are evaluated once per invocation, in declaration order,
	// with later bindings able to reference earlier ones.
	Binding struct {
		Name string
		// Expr is the raw expression source on the right of `:=`.
		Expr string
		// Export additionally places the resolved value into the
		// environment of every child process (`export name := ...`).
		Export bool
		// Line is the 1-based source line of the binding.
		Line int
	}

	// Cookfile is the parsed recipe table: variable bindings and recipes,
	// both in declaration order. It is immutable after parsing.
	Cookfile struct {
		// FilePath is the source path the cookfile was parsed from.
		FilePath string
		// Bindings are the top-level variable bindings, in declaration order.
		Bindings []Binding
		// Recipes are the declared recipes, in declaration order.
		Recipes []*Recipe

		byName map[RecipeName]*Recipe
	}
)

// Get returns the recipe with the given name, or nil when none exists.
func (c *Cookfile) Get(name RecipeName) *Recipe {
	return c.byName[name]
}

// DefaultRecipe returns the first recipe declared in the file, or nil when
// the cookfile declares no recipes. Running the orchestrator without a
// recipe name executes this recipe.
func (c *Cookfile) DefaultRecipe() *Recipe {
	if len(c.Recipes) == 0 {
		return nil
	}
	return c.Recipes[0]
}

// PublicRecipes returns the non-private recipes in declaration order.
func (c *Cookfile) PublicRecipes() []*Recipe {
	public := make([]*Recipe, 0, len(c.Recipes))
	for _, r := range c.Recipes {
		if !r.IsPrivate() {
			public = append(public, r)
		}
	}
	return public
}

// Names returns all recipe names in declaration order, private included.
func (c *Cookfile) Names() []RecipeName {
	names := make([]RecipeName, len(c.Recipes))
	for i, r := range c.Recipes {
		names[i] = r.Name
	}
	return names
}

// HasBinding reports whether a top-level binding with the given name exists.
func (c *Cookfile) HasBinding(name string) bool {
	for _, b := range c.Bindings {
		if b.Name == name {
			return true
		}
	}
	return false
}

// validate checks cross-recipe invariants after parsing: every dependency
// must name an existing recipe, and the number of dependency arguments must
// fit the dependency's parameter shape.
func (c *Cookfile) validate() *ParseError {
	for _, r := range c.Recipes {
		for _, dep := range r.Deps {
			target := c.byName[dep.Name]
			if target == nil {
				return parseErrorf(c.FilePath, dep.Line,
					"recipe %q depends on unknown recipe %q", r.Name, dep.Name)
			}
			if len(dep.Args) < target.MinArgs() {
				return parseErrorf(c.FilePath, dep.Line,
					"dependency %q needs at least %d argument(s), got %d",
					dep.Name, target.MinArgs(), len(dep.Args))
			}
			if max := target.MaxArgs(); max >= 0 && len(dep.Args) > max {
				return parseErrorf(c.FilePath, dep.Line,
					"dependency %q accepts at most %d argument(s), got %d",
					dep.Name, max, len(dep.Args))
			}
		}
	}
	return nil
}
