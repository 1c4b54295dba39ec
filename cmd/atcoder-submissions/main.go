package main

import "github.com/pfrederiksen/atcoder-submissions/internal/cli"

func main() {
	cli.Execute()
}
