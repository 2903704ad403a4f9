package main

import (
	"os"

	"condexpr/cmd/condexpr/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
