// Command caretip shows an input-method marker next to the text cursor.
package main

import (
	"os"

	"github.com/tessro/caretip/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
