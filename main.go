package main

import (
	"os"

	"github.com/devaloi/gem/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:]))
}
