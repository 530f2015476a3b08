package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvEmail     = "UBI_EMAIL"
	EnvPassword  = "UBI_PASSWORD"
	EnvProfileID = "UBI_ID"
)

type Credentials struct {
	Email     string
	Password  string
	ProfileID string
}

// LoadCredentials reads the login from the environment, after loading
// envFile if it exists. Variables already set in the environment win.
func LoadCredentials(envFile string) (Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Credentials{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	return Credentials{
		Email:     strings.TrimSpace(os.Getenv(EnvEmail)),
		Password:  os.Getenv(EnvPassword),
		ProfileID: strings.TrimSpace(os.Getenv(EnvProfileID)),
	}, nil
}

// Missing names the variables a login needs but that are empty.
func (c Credentials) Missing() []string {
	var out []string
	if c.Email == "" {
		out = append(out, EnvEmail)
	}
	if c.Password == "" {
		out = append(out, EnvPassword)
	}
	return out
}
