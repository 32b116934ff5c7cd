package main

import (
	"os"

	"flight-price-bot/cmd"
)

var version = "dev"

func main() {
	os.Exit(cmd.Execute(version))
}
