// SPDX-License-Identifier: MPL-2.0

package cookfile

type (
	// Dependency declares that another recipe must complete before the
	// declaring recipe's own command lines run. The parenthesized form
	// `(name expr...)` forwards argument expressions, evaluated in the
	// declaring recipe's scope when the plan executes.
	Dependency struct {
		Name RecipeName
		// Args holds the raw argument expression sources, in order.
		Args []string
		// Line is the 1-based source line of the declaration.
		Line int
	}
)
