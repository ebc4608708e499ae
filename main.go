// SPDX-License-Identifier: MPL-2.0

package main

import cmd "cookbook-cli/cmd/cookbook"

func main() {
	cmd.Execute()
}
