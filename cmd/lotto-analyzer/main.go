package main

import "github.com/pfrederiksen/lotto-analyzer/internal/cli"

func main() {
	cli.Execute()
}
