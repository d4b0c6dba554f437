package main

import (
	"log"
	"os"
	"todoapi/config"
	"todoapi/helper"
)

const (
	argLength = 2
)

func main() {
	if len(os.Args) < argLength {
		log.Fatal("Migration direction (up/down) is required")
	}

	cfg := config.Get()

	switch os.Args[1] {
	case helper.ActionUp:
		if err := helper.Up(cfg); err != nil {
			log.Fatal(err)
		}
	case helper.ActionDown:
		if err := helper.Down(cfg); err != nil {
			log.Fatal(err)
		}
	case helper.ActionDrop:
		if err := helper.Drop(cfg); err != nil {
			log.Fatal(err)
		}
	case helper.ActionStepUp:
		if err := helper.StepUp(cfg); err != nil {
			log.Fatal(err)
		}
	case "dynamo":
		if err := helper.CreateDynamoTable(cfg); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatal("Invalid direction. Use 'up', 'down', 'drop', 'step-up' or 'dynamo'")
	}
}
