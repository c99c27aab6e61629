package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/provenv/cmd"
)

func main() {
	if err := cmd.ProvenvCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
