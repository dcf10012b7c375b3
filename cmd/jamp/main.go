package main

import "github.com/tessro/jamp/internal/cli"

func main() {
	cli.Execute()
}
