// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"cookbook-cli/pkg/cookfile"
)

type (
	// dumpDocument is the TOML shape of a parsed cookfile, stable for
	// tooling to consume.
	dumpDocument struct {
		Path     string        `toml:"path"`
		Bindings []dumpBinding `toml:"bindings,omitempty"`
		Recipes  []dumpRecipe  `toml:"recipes"`
	}

	dumpBinding struct {
		Name   string `toml:"name"`
		Expr   string `toml:"expr"`
		Export bool   `toml:"export,omitempty"`
	}

	dumpRecipe struct {
		Name    string      `toml:"name"`
		Private bool        `toml:"private,omitempty"`
		NoEcho  bool        `toml:"no_echo,omitempty"`
		Params  []dumpParam `toml:"params,omitempty"`
		Deps    []dumpDep   `toml:"deps,omitempty"`
		Lines   []string    `toml:"lines"`
	}

	dumpParam struct {
		Name     string `toml:"name"`
		Default  string `toml:"default,omitempty"`
		Variadic string `toml:"variadic,omitempty"`
	}

	dumpDep struct {
		Name string   `toml:"name"`
		Args []string `toml:"args,omitempty"`
	}
)

// runDump prints the parsed cookfile as TOML.
func runDump(cmd *cobra.Command, file *cookfile.Cookfile) error {
	doc := dumpDocument{Path: file.FilePath}

	for _, b := range file.Bindings {
		doc.Bindings = append(doc.Bindings, dumpBinding{Name: b.Name, Expr: b.Expr, Export: b.Export})
	}

	for _, r := range file.Recipes {
		dr := dumpRecipe{
			Name:    string(r.Name),
			Private: r.IsPrivate(),
			NoEcho:  r.NoEcho(),
		}
		for _, p := range r.Params {
			dr.Params = append(dr.Params, dumpParam{Name: p.Name, Default: p.Default, Variadic: string(p.Variadic)})
		}
		for _, d := range r.Deps {
			dr.Deps = append(dr.Deps, dumpDep{Name: string(d.Name), Args: d.Args})
		}
		for _, line := range r.Lines {
			dr.Lines = append(dr.Lines, line.Raw)
		}
		doc.Recipes = append(doc.Recipes, dr)
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return failWith(cmd, fmt.Errorf("failed to encode cookfile dump: %w", err))
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
