package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file into the environment when one exists.
// Variables already set win over the file.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	return godotenv.Load(files...)
}
