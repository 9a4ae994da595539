package main

import (
	"log"

	"github.com/scenegallery/scenegallery/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ scenegallery failed to start: %v", err)
	}
}
