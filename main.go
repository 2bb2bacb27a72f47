package main

import "modlay/internal/cli"

func main() {
	cli.Execute()
}
