package main

import (
	"aimtrainer/internal/config"
	"aimtrainer/internal/desktop"
	"log"
)

func main() {
	if err := desktop.Run(config.Load()); err != nil {
		log.Fatal(err.Error())
	}
}
