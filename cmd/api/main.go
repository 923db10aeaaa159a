package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cinehall/cinehall/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; flags fall back to their defaults without one.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
