package main

import (
	"os"

	"github.com/debiasdaily/debias/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
