// SPDX-License-Identifier: MPL-2.0

// Package plan turns an invocation (a cookfile, a target recipe, and its
// argument tokens) into a deterministic execution plan: every recipe
// reachable from the target, each exactly once, ordered so prerequisites run
// before their dependents.
package plan

import (
	"cookbook-cli/internal/dag"
	"cookbook-cli/pkg/cookfile"
)

type (
	// Step is one recipe occurrence in a plan.
	Step struct {
		Recipe *cookfile.Recipe
		// Invoker is the recipe whose dependency clause first reached this
		// one; empty on the invocation target.
		Invoker cookfile.RecipeName
		// ArgExprs are the dependency argument expressions from the invoker's
		// clause, to be evaluated in the invoker's scope.
		ArgExprs []string
		// Tokens are the literal command-line argument values; set only on
		// the invocation target.
		Tokens []string
	}

	// Plan is an ordered set of steps. A recipe appears at most once even
	// when several dependents reach it; the first dependency clause to reach
	// it decides its arguments.
	Plan struct {
		File   *cookfile.Cookfile
		Target cookfile.RecipeName

		steps  []*Step
		byName map[cookfile.RecipeName]*Step
	}
)

// Build resolves the invocation target, walks its dependency closure, and
// returns the steps in execution order. Fails with an UnknownRecipeError for
// an undefined target, an ArgumentError when the token count does not fit
// the target's parameters, or a dag.CycleError for cyclic dependencies.
func Build(file *cookfile.Cookfile, target cookfile.RecipeName, tokens []string) (*Plan, error) {
	recipe := file.Get(target)
	if recipe == nil {
		return nil, &UnknownRecipeError{Name: target, Suggestion: closestName(target, file.Names())}
	}
	if err := checkArity(recipe, len(tokens)); err != nil {
		return nil, err
	}

	p := &Plan{
		File:   file,
		Target: target,
		byName: make(map[cookfile.RecipeName]*Step),
	}
	graph := dag.New()
	graph.Add(target)
	p.byName[target] = &Step{Recipe: recipe, Tokens: tokens}
	p.discover(recipe, graph)

	order, err := graph.Sort()
	if err != nil {
		return nil, err
	}
	p.steps = make([]*Step, len(order))
	for i, name := range order {
		p.steps[i] = p.byName[name]
	}
	return p, nil
}

// discover walks dependency clauses depth-first in declaration order. Every
// clause contributes an ordering edge; only the first clause to reach a
// recipe contributes its arguments.
func (p *Plan) discover(recipe *cookfile.Recipe, graph *dag.Graph) {
	for _, dep := range recipe.Deps {
		graph.AddPrerequisite(dep.Name, recipe.Name)
		if _, seen := p.byName[dep.Name]; seen {
			continue
		}
		target := p.File.Get(dep.Name)
		p.byName[dep.Name] = &Step{
			Recipe:   target,
			Invoker:  recipe.Name,
			ArgExprs: dep.Args,
		}
		p.discover(target, graph)
	}
}

// Steps returns the steps in execution order.
func (p *Plan) Steps() []*Step { return p.steps }

// Step returns the plan entry for a recipe, or nil when the recipe is not
// part of this plan.
func (p *Plan) Step(name cookfile.RecipeName) *Step { return p.byName[name] }

func checkArity(recipe *cookfile.Recipe, got int) error {
	minArgs, maxArgs := recipe.MinArgs(), recipe.MaxArgs()
	if got < minArgs || (maxArgs >= 0 && got > maxArgs) {
		return &ArgumentError{Recipe: recipe.Name, Min: minArgs, Max: maxArgs, Got: got}
	}
	return nil
}
