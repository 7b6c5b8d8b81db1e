package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// skipAuth marks commands that sign in by themselves.
const skipAuth = "skipAuth"

// cli holds the app opened for the running command.
type cli struct {
	open appOpener
	app  *app
}

func (c *cli) close() {
	if c.app != nil {
		c.app.close()
		c.app = nil
	}
}

func newRootCmd(c *cli) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("STUDYCLI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "studycli",
		Short: "StudyBuddy from the terminal",
		Long: `studycli runs StudyBuddy actions from a terminal.

Every command but signin needs a session: pass --token (from "studycli signin"), or
--email and --password. Flags can also be set from the environment (eg. STUDYCLI_TOKEN).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			c.app = a
			if cmd.Annotations[skipAuth] != "" {
				return nil
			}
			return a.authenticate(cmd.Context(), v.GetString("token"), v.GetString("email"), v.GetString("password"))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("token", "", "Session token")
	flags.String("email", "", "Sign in with this email")
	flags.String("password", "", "Sign in with this password")
	for _, name := range []string{"token", "email", "password"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(
		newSignInCmd(c, v),
		newCoursesCmd(c),
		newTasksCmd(c),
		newExportICSCmd(c),
		newFlashcardsCmd(c),
		newQuizCmd(c),
		newAskCmd(c),
		newDocumentAICmd(c),
	)
	return rootCmd
}
