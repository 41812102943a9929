// Command lifeos runs the personal dashboard: a spreadsheet-shaped
// store for tasks, expenses, habits, and journal entries served behind
// a passphrase gate.
package main

import "github.com/mesh-intelligence/lifeos/internal/cli"

func main() {
	cli.Execute()
}
