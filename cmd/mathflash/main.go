package main

import (
	"os"

	"github.com/vytor/mathflash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
