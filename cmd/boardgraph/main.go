package main

import "github.com/OpenTraceLab/boardgraph/cmd/boardgraph/cmd"

func main() {
	cmd.Execute()
}
