package main

import (
	"os"

	"jordanella.com/blum-go/cmd/blum-bot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
