package main

import (
	"fmt"
	"os"

	"github.com/writewhisker/whisker-script/cmd/whisker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
