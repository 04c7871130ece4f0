package main

import (
	"os"

	"github.com/GoPolymarket/yieldgate/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, config.Load))
}
