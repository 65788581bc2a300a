package main

import (
	"os"

	"github.com/raveheart1/relkit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
