package cmd

import (
	"flag"
	"log"
	"os"
	"strings"

	"xwords/internal/config"
	"xwords/internal/core/grammar"

	"github.com/joho/godotenv"
)

// LoadEnvFile registers the -env flag, parses the command line and loads the
// env file if one was given. Mains must define their own flags first.
func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// LoadConfig reads the env config and installs the configured logger.
func LoadConfig() config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if err := cfg.SetupLogging(os.Stderr); err != nil {
		log.Fatalf("error setting up logging: %v", err)
	}

	return cfg
}

// ParseGrammar reads a grammar written as its four markers in order, e.g.
// "%@~&". An empty string selects the default grammar.
func ParseGrammar(markers string) (grammar.Grammar, error) {
	if markers == "" {
		return grammar.Default(), nil
	}
	return grammar.FromSymbols(strings.Split(markers, ""))
}
