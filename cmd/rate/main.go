package main

import (
	"os"

	"github.com/huddlesocial/huddle/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
