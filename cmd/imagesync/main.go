package main

import (
	"imagesync/internal/cli"
)

func main() {
	cli.Execute()
}
