package main

import "github.com/tessro/patchdeck/internal/cli"

func main() {
	cli.Execute()
}
