package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/qaiserfcc/cloud-pos-cli/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login     commands.LoginCmd     `cmd:"" help:"Log in to the POS API"`
		Register  commands.RegisterCmd  `cmd:"" help:"Create an account and log in"`
		Logout    commands.LogoutCmd    `cmd:"" help:"Log out and clear the local session"`
		Whoami    commands.WhoamiCmd    `cmd:"" help:"Show the current session"`
		Profile   commands.ProfileCmd   `cmd:"" help:"Manage your profile"`
		Context   commands.ContextCmd   `cmd:"" help:"Show or switch the active tenant/store"`
		Tenants   commands.TenantsCmd   `cmd:"" help:"Manage tenants"`
		Stores    commands.StoresCmd    `cmd:"" help:"Manage stores"`
		Users     commands.UsersCmd     `cmd:"" help:"Manage users"`
		Roles     commands.RolesCmd     `cmd:"" help:"Manage roles and permissions"`
		Dashboard commands.DashboardCmd `cmd:"" help:"Show the sales/inventory dashboard"`

		Server  string `help:"POS API base URL." env:"CLOUDPOS_SERVER"`
		Dir     string `help:"State directory (default ~/.cloudpos)." env:"CLOUDPOS_DIR"`
		Debug   bool   `help:"Enable debug logging."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:   cli.Debug,
		Server:  cli.Server,
		Dir:     cli.Dir,
		Version: version,
	})
	cmd.FatalIfErrorf(err)
}
