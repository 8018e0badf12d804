package cmd

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

func newServeFlagSet() *cobra.Command {
	cmd := &cobra.Command{Use: "serve"}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func TestServeFlags_SkipMigrate(t *testing.T) {
	c := qt.New(t)

	c.Run("defaults to running migrations", func(c *qt.C) {
		cmd := newServeFlagSet()
		c.Assert(cmd.ParseFlags(nil), qt.IsNil)
		skip, err := cmd.Flags().GetBool(skipMigrateFlag)
		c.Assert(err, qt.IsNil)
		c.Assert(skip, qt.IsFalse)
	})

	c.Run("bare flag skips", func(c *qt.C) {
		cmd := newServeFlagSet()
		c.Assert(cmd.ParseFlags([]string{"--skip-migrate"}), qt.IsNil)
		skip, err := cmd.Flags().GetBool(skipMigrateFlag)
		c.Assert(err, qt.IsNil)
		c.Assert(skip, qt.IsTrue)
	})

	c.Run("rejects a non-boolean value", func(c *qt.C) {
		cmd := newServeFlagSet()
		err := cmd.ParseFlags([]string{"--skip-migrate=maybe"})
		c.Assert(err, qt.ErrorMatches, `.*invalid argument "maybe".*`)
	})
}
