package main

import "github.com/mcoot/duelsmp/internal/cli"

func main() {
	cli.Execute()
}
