package main

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

// TestMain loads .env when present so DATABASE_URL-dependent tests can opt in.
func TestMain(m *testing.M) {
	_ = godotenv.Load()

	os.Exit(m.Run())
}
