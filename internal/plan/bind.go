// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"context"
	"strings"

	"cookbook-cli/internal/eval"
	"cookbook-cli/pkg/cookfile"
)

type (
	// Binding is a recipe's fully bound evaluation scope: parameter values
	// layered over the global bindings, plus the positional value vector the
	// executor hands to every command line of the recipe as $1..$n.
	Binding struct {
		Scope eval.Scope
		// Positional holds one entry per bound value; a variadic parameter
		// contributes one entry per captured token.
		Positional []string
	}

	// Binder computes recipe bindings on demand and memoizes them. A
	// dependency's argument expressions evaluate in the scope of the recipe
	// that declared the clause, so bindings resolve invoker-first regardless
	// of execution order.
	Binder struct {
		resolver *eval.Resolver
		plan     *Plan
		bindings map[cookfile.RecipeName]*Binding
	}
)

// NewBinder creates a Binder over a resolved plan. The resolver's global
// bindings must already be resolved.
func NewBinder(resolver *eval.Resolver, p *Plan) *Binder {
	return &Binder{
		resolver: resolver,
		plan:     p,
		bindings: make(map[cookfile.RecipeName]*Binding),
	}
}

// For returns the binding for a recipe in the plan, computing and caching it
// on first use. Evaluating dependency arguments or parameter defaults may
// spawn capture commands, hence the context.
func (b *Binder) For(ctx context.Context, name cookfile.RecipeName) (*Binding, error) {
	if bound, ok := b.bindings[name]; ok {
		return bound, nil
	}
	step := b.plan.Step(name)

	values := step.Tokens
	if step.Invoker != "" {
		parent, err := b.For(ctx, step.Invoker)
		if err != nil {
			return nil, err
		}
		values = make([]string, len(step.ArgExprs))
		for i, expr := range step.ArgExprs {
			v, err := parent.Scope.Eval(ctx, expr)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
	}

	bound, err := b.bind(ctx, step.Recipe, values)
	if err != nil {
		return nil, err
	}
	b.bindings[name] = bound
	return bound, nil
}

// bind matches positional values against the recipe's parameter list,
// tracking a token cursor that advances only when a parameter consumes a
// value. A defaulted parameter consumes a token only when the tokens left
// over still cover the minimum needs of the parameters after it, so a
// trailing `+` variadic keeps its token instead of starving while an
// earlier default eats it. The variadic captures every remaining value and
// exposes them space-joined as a single variable; defaults evaluate with
// earlier parameters already in scope.
func (b *Binder) bind(ctx context.Context, recipe *cookfile.Recipe, values []string) (*Binding, error) {
	params := make(map[string]string, len(recipe.Params))
	positional := make([]string, 0, len(values))

	next := 0
	for i, p := range recipe.Params {
		if p.Variadic != cookfile.VariadicNone {
			rest := values[next:]
			if p.Variadic == cookfile.VariadicOneOrMore && len(rest) == 0 {
				return nil, &ArgumentError{Recipe: recipe.Name, Min: recipe.MinArgs(), Max: -1, Got: len(values)}
			}
			params[p.Name] = strings.Join(rest, " ")
			positional = append(positional, rest...)
			next = len(values)
			continue
		}

		surplus := len(values) - next - 1 - suffixMin(recipe.Params[i+1:])
		switch {
		case next < len(values) && (!p.HasDefault || surplus >= 0):
			params[p.Name] = values[next]
			positional = append(positional, values[next])
			next++
		case p.HasDefault:
			v, err := b.resolver.ScopeWith(params).Eval(ctx, p.Default)
			if err != nil {
				return nil, err
			}
			params[p.Name] = v
			positional = append(positional, v)
		default:
			return nil, &ArgumentError{Recipe: recipe.Name, Min: recipe.MinArgs(), Max: recipe.MaxArgs(), Got: len(values)}
		}
	}

	if next < len(values) {
		return nil, &ArgumentError{Recipe: recipe.Name, Min: recipe.MinArgs(), Max: recipe.MaxArgs(), Got: len(values)}
	}
	return &Binding{Scope: b.resolver.ScopeWith(params), Positional: positional}, nil
}

// suffixMin returns the minimum number of tokens the given parameter tail
// requires: one per required parameter, one for a `+` variadic.
func suffixMin(params []cookfile.Parameter) int {
	n := 0
	for i := range params {
		if params[i].Required() {
			n++
		}
	}
	return n
}
