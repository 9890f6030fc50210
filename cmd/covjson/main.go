package main

import (
	"fmt"
	"os"

	"github.com/zjy-dev/covjson/cmd/covjson/app"
)

func main() {
	if err := app.NewCovjsonCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
