// Command prograde upgrades legacy basin projects to the current schema.
package main

import "github.com/mesh-intelligence/prograde/internal/cli"

func main() {
	cli.Execute()
}
