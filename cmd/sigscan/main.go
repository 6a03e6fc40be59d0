package main

import "github.com/mvp-joe/sigscan/internal/cli"

func main() {
	cli.Execute()
}
