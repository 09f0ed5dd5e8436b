// rootfind CLI - numerical root finding with iteration traces
package main

import (
	"os"

	"github.com/njchilds90/rootfind/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
