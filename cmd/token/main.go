// Command token mints a viewer token for the dashboard API.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/lorrc/testing-insight/internal/auth"
	"github.com/lorrc/testing-insight/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var viewerID, name string
	var ttl string

	flagSet := pflag.NewFlagSet("token", pflag.ContinueOnError)
	flagSet.StringVar(&viewerID, "viewer", "", "viewer id written to the token (required)")
	flagSet.StringVar(&name, "name", "", "display name of the viewer")
	flagSet.StringVar(&ttl, "ttl", "", "token lifetime, e.g. 8h (default: JWT_ACCESS_TOKEN_TTL)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if strings.TrimSpace(viewerID) == "" {
		return errors.New("--viewer is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.AuthEnabled() {
		return errors.New("JWT_SECRET is not set; the API accepts anonymous viewers")
	}

	lifetime := cfg.JWT.AccessTokenTTL
	if ttl != "" {
		if lifetime, err = parseTTL(ttl); err != nil {
			return err
		}
	}

	token, err := auth.NewTokenManager(cfg.JWT.Secret, lifetime).GenerateToken(viewerID, name)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
