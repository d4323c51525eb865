package main

import (
	"os"

	"github.com/mpawlak/skillatlas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
