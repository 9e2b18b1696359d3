package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core"
	"github.com/kahenga/onyesha/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		return err
	}
	found := err == nil

	if !found {
		now := time.Now().UTC()
		usr = user.User{
			Username:  uname,
			Email:     email,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if found {
		active := true
		usr.UpdatedAt = time.Now().UTC()
		_, err = cli.usrRepo.UpdateUser(ctx, usr, &active)
	} else {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	}
	return err
}
