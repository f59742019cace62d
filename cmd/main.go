package main

import (
	"os"

	"github.com/Nihil96/quiz-app/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
