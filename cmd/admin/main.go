// admin grants or revokes the admin claim on an identity. Sessions of the
// affected user pick up the change on their next token refresh.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"purohit/config"
	"purohit/di"
	"purohit/shared/logger"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

const commandTimeout = 30 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		email  string
		grant  bool
		revoke bool
		remove bool
	)

	flagSet := pflag.NewFlagSet("admin", pflag.ContinueOnError)
	flagSet.StringVarP(&email, "email", "e", "", "email of the identity to update")
	flagSet.BoolVar(&grant, "grant", false, "set the admin claim")
	flagSet.BoolVar(&revoke, "revoke", false, "set the admin claim to false")
	flagSet.BoolVar(&remove, "clear", false, "remove the admin claim")

	if err := flagSet.Parse(args); err != nil {
		return err //nolint:wrapcheck
	}

	claim, err := claimFromFlags(grant, revoke, remove)
	if err != nil {
		return err
	}

	if email == "" {
		return errors.New("--email is required")
	}

	cfg := config.Get()

	logger.InitLogger()
	logger.Configure(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := di.InitializeIdentity().SetAdminClaim(ctx, email, claim); err != nil {
		return fmt.Errorf("failed to update admin claim: %w", err)
	}

	log.Info().Str("email", email).Interface("is_admin", claim).Msg("admin claim updated")

	return nil
}

// claimFromFlags requires exactly one of the three actions.
func claimFromFlags(grant, revoke, remove bool) (*bool, error) {
	selected := 0

	for _, set := range []bool{grant, revoke, remove} {
		if set {
			selected++
		}
	}

	if selected != 1 {
		return nil, errors.New("exactly one of --grant, --revoke or --clear is required")
	}

	if remove {
		return nil, nil //nolint:nilnil
	}

	return &grant, nil
}
