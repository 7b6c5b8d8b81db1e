package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSignInCmd(c *cli, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:         "signin",
		Short:       "Sign in and print a session token",
		Annotations: map[string]string{skipAuth: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			email, password := v.GetString("email"), v.GetString("password")
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			a.store.SignIn(cmd.Context(), email, password)
			if err := a.check(); err != nil {
				return err
			}
			st := a.store.Snapshot()
			out := cmd.OutOrStdout()
			printf(out, "Signed in as %s <%s>\n", st.User.Name, st.User.Email)
			printf(out, "%d course(s), %d task(s)\n", len(st.Courses), len(st.Tasks))
			printf(out, "token: %s\n", a.client.Session())
			return nil
		},
	}
}
