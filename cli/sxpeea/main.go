package main

import (
	"os"

	sxpeeacmder "github.com/sxpeea/sxpeea/cmd/sxpeea"
)

func main() {
	cmd := sxpeeacmder.NewSxpeeaCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
