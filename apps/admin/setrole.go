package main

import (
	"context"
	"fmt"

	"github.com/trezcool/campus/core/auth"
)

// setRole assigns a role without going through the API, which is how the first admin gets created.
func (cli *commandLine) setRole(userID, r string) error {
	role, err := auth.ParseRole(r)
	if err != nil {
		return err
	}

	ctx := context.Background()
	prof, err := cli.usrRepo.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err = cli.usrRepo.SetRole(ctx, prof.UserID, role); err != nil {
		return err
	}
	cli.logger.Info(fmt.Sprintf("%s is now %s", prof.Email, role))
	return nil
}
