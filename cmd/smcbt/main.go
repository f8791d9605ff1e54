package main

import (
	"os"

	"github.com/tradewindlabs/smcbt/pkg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
