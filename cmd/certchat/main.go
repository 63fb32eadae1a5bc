package main

import (
	"os"

	"certchat/cmd/certchat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
