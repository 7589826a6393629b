package main

import "github.com/dyike/FiiGo/internal/cli"

func main() {
	cli.Run()
}
