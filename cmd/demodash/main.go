package main

import "demodash/internal/cli"

func main() {
	cli.Execute()
}
