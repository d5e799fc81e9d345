package main

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/pflag"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sqlx.DB
	usrRepo user.Repository
	logger  core.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS...]         - run a goose command (up, down, status, create NAME sql, ...)")
	fmt.Println("  setrole --user USER_ID --role ROLE - assign admin, teacher or student to an account")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setRoleCmd := pflag.NewFlagSet("setrole", pflag.ContinueOnError)
	setRoleUser := setRoleCmd.String("user", "", "The id of the account, as issued by the identity provider.")
	setRoleRole := setRoleCmd.String("role", "", "The role to assign: admin, teacher or student.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "setrole":
		if err := setRoleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setRoleUser == "" || *setRoleRole == "" {
			setRoleCmd.Usage()
			return errHelp
		}
		return cli.setRole(*setRoleUser, *setRoleRole)
	default:
		cli.printUsage()
		return errHelp
	}
}
