package main

import (
	"fmt"
	"os"

	"review-catalog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "review-catalog:", err)
		os.Exit(1)
	}
}
