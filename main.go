package main

import "github.com/brogergvhs/r6scrape/cmd"

func main() {
	cmd.Execute()
}
