package main

import (
	"aimtrainer/internal/config"
	"aimtrainer/internal/terminal"
	"log"
)

func main() {
	if err := terminal.Run(config.Load()); err != nil {
		log.Fatal(err.Error())
	}
}
