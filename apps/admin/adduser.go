package main

import (
	"context"
	"fmt"

	"github.com/trezcool/studybuddy/core/user"
)

// addUser creates a user (identity and profile) as if they had signed up.
func (cli *commandLine) addUser(email, name, institution, pwd string) error {
	usr, err := cli.usrSvc.SignUp(context.Background(), user.NewUser{
		Name:        name,
		Email:       email,
		Institution: institution,
		Password:    pwd,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created user %s (%s)\n", usr.Email, usr.ID)
	return nil
}
