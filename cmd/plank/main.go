package main

import (
	"github.com/pasjesplank/plank/internal/cli"
	"github.com/pasjesplank/plank/internal/logger"
)

func main() {
	defer logger.Sync()
	cli.Run()
}
