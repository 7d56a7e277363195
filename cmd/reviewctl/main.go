package main

import (
	"os"

	"github.com/ndewijer/Investment-Research-Backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
