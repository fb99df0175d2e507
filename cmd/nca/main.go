package main

import (
	"os"

	cliruntime "github.com/tomasbasham/cli-runtime"

	"github.com/bsormagec/no-code-architects-toolkit/internal/cmd"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	command := cmd.NewRootCommand()
	if code := cliruntime.Run(command); code != 0 {
		os.Exit(code)
	}
}
