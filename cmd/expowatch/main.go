package main

import "github.com/tmcewan/expowatch/internal/cli"

func main() {
	cli.Execute()
}
