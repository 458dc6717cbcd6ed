package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFiles maps the ENV variable to the dotenv file that seeds the
// process environment before the YAML config is read.
var envFiles = map[string]string{
	"prd":         ".env.production",
	"prod":        ".env.production",
	"production":  ".env.production",
	"dev":         ".env.development",
	"development": ".env.development",
	"local":       ".env.local",
	"bak":         ".env.bak",
	"backup":      ".env.bak",
}

// ReadEnv seeds the process environment from the dotenv file selected
// by ENV, falling back to ./.env. A missing file surfaces as
// os.ErrNotExist so callers can treat the dotenv layer as optional.
func ReadEnv() error {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
	filename := "./.env"
	if f, ok := envFiles[env]; ok {
		filename = "./" + f
	}
	if _, err := os.Stat(filename); err != nil {
		return err
	}

	vars, err := godotenv.Read(filename)
	if err != nil {
		return err
	}
	for k, v := range vars {
		_ = os.Setenv(k, v)
	}
	return nil
}
