package main

import "github.com/digiko/dexd/internal/cli"

func main() {
	cli.Execute()
}
