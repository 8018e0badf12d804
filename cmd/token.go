package cmd

import (
	"errors"
	"fmt"
	"time"

	"scriptgo/infrastructure/configuration"
	"scriptgo/infrastructure/utils"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const (
	userFlag  = "user"
	emailFlag = "email"
	ttlFlag   = "ttl"
)

var tokenFlags = map[string]cobraflags.Flag{
	userFlag: &cobraflags.StringFlag{
		Name:  userFlag,
		Value: "",
		Usage: "User id placed in the sub claim (required)",
	},
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Email claim used for notifications",
	},
	ttlFlag: &cobraflags.StringFlag{
		Name:  ttlFlag,
		Value: "24h",
		Usage: "Token lifetime as a Go duration",
	},
}

func NewTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		Long: `Sign a JWT with app.secretKey so the API can be called without the
external identity provider.

Example:
  scriptgo token --user u-123 --email me@example.com --ttl 2h`,
		RunE: tokenCommand,
	}
	cobraflags.RegisterMap(tokenCmd, tokenFlags)
	return tokenCmd
}

func tokenCommand(cmd *cobra.Command, _ []string) error {
	userID := tokenFlags[userFlag].GetString()
	if userID == "" {
		return errors.New("--user is required")
	}
	ttl, err := time.ParseDuration(tokenFlags[ttlFlag].GetString())
	if err != nil {
		return fmt.Errorf("invalid --ttl: %w", err)
	}
	secret := configuration.C.App.SecretKey
	if secret == "" {
		return errors.New("app.secretKey is not configured; set SECRET_KEY")
	}

	token, err := utils.GenerateUserToken(userID, tokenFlags[emailFlag].GetString(), secret, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
