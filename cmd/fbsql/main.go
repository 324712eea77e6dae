package main

import (
	"os"

	"github.com/fbsql/fbsql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
