package main

import (
	"os"

	"github.com/beatty/myagent/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
