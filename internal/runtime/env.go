// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"os"
	"sort"
)

// EnvToSlice converts an environment map to KEY=VALUE form, sorted by key so
// child environments are reproducible.
func EnvToSlice(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%s=%s", k, env[k])
	}
	return out
}

// buildEnviron layers the context's extra variables over the inherited
// process environment. Later entries win on duplicate keys, so extras
// override inherited values.
func buildEnviron(ctx *ExecutionContext) []string {
	return append(os.Environ(), EnvToSlice(ctx.ExtraEnv)...)
}
