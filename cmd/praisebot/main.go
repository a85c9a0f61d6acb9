// Command praisebot renders chat praise commands into SVG artifacts.
package main

import (
	"os"

	"github.com/masoncj/praisebot/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
