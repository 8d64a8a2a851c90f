package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads variables from a .env file in the working directory or its
// parent, if one exists. Variables already set in the environment win. It
// reports the file it loaded, or "" when none was found.
func LoadEnv() (loaded string, err error) {
	once.Do(func() {
		for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
			if _, statErr := os.Stat(candidate); statErr != nil {
				continue
			}
			if err = godotenv.Load(candidate); err == nil {
				loaded = candidate
			}
			return
		}
	})
	return loaded, err
}
