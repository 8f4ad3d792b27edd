// Command acepatch adds and edits player aircraft in the game's data tables.
package main

import "github.com/M4rkoza7/AceCombatExpansionSystem/internal/cli"

func main() {
	cli.Execute()
}
