package main

import (
	"jvdveen/dealwatch/cmd"
)

func main() {
	cmd.Execute()
}
