// SPDX-License-Identifier: MPL-2.0

package main

import cmd "cgwdict/cmd/cgwdict"

func main() {
	cmd.Execute()
}
