package main

import (
	"fmt"
	"os"

	"walletlink/cmd/walletlink/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
