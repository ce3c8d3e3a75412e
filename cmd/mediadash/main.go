package main

import (
	"log"

	"mediadash/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("mediadash failed to start: %v", err)
	}
}
