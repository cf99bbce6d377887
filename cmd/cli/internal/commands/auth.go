package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/qaiserfcc/cloud-pos-cli/internal/guard"
	"github.com/qaiserfcc/cloud-pos-cli/internal/session"
)

// LoginCmd logs in and persists the session locally.
type LoginCmd struct {
	Email    string `arg:"" help:"Account email"`
	Password string `help:"Account password. Prompted when omitted." env:"CLOUDPOS_PASSWORD"`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}

	password := c.Password
	if password == "" {
		password, err = promptLine("Password: ")
		if err != nil {
			return err
		}
	}

	if err := app.session.Login(ctx, c.Email, password); err != nil {
		return err
	}

	snap := app.session.Snapshot()
	fmt.Printf("Logged in as %s", snap.User.Email)
	if snap.Tenant != nil {
		fmt.Printf(" (tenant: %s)", snap.Tenant.Name)
	}
	fmt.Println()
	return nil
}

// RegisterCmd creates an account and logs in.
type RegisterCmd struct {
	Email      string `arg:"" help:"Account email"`
	FirstName  string `required:"" help:"First name"`
	LastName   string `required:"" help:"Last name"`
	Password   string `help:"Account password. Prompted when omitted." env:"CLOUDPOS_PASSWORD"`
	TenantID   string `help:"Join an existing tenant" xor:"tenant"`
	TenantName string `help:"Create a new tenant" xor:"tenant"`
	RoleID     string `help:"Requested role"`
}

func (c *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}

	password := c.Password
	confirm := c.Password
	if password == "" {
		password, err = promptLine("Password: ")
		if err != nil {
			return err
		}
		confirm, err = promptLine("Confirm password: ")
		if err != nil {
			return err
		}
	}

	if err := app.session.Register(ctx, session.RegisterParams{
		Email:           c.Email,
		Password:        password,
		ConfirmPassword: confirm,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		TenantID:        c.TenantID,
		TenantName:      c.TenantName,
		RoleID:          c.RoleID,
	}); err != nil {
		return err
	}

	snap := app.session.Snapshot()
	fmt.Printf("Registered and logged in as %s\n", snap.User.Email)
	return nil
}

// LogoutCmd logs out. The local session is cleared even when the server
// call fails.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}

	if err := app.session.Logout(ctx); err != nil {
		return err
	}

	fmt.Println("Logged out.")
	return nil
}

// WhoamiCmd prints the current session, including locally decoded token
// claims.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true}); err != nil {
		return err
	}

	snap := app.session.Snapshot()
	fmt.Printf("User:        %s (%s)\n", snap.User.FullName(), snap.User.Email)
	fmt.Printf("Roles:       %s\n", orDash(strings.Join(snap.User.Roles, ", ")))
	fmt.Printf("Superadmin:  %s\n", yesNo(snap.IsSuperadmin))
	fmt.Printf("Tenant:      %s\n", orDash(snap.TenantID))
	if snap.Tenant != nil {
		fmt.Printf("Tenant name: %s\n", snap.Tenant.Name)
	}
	fmt.Printf("Store:       %s\n", orDash(snap.StoreID))
	if snap.Store != nil {
		fmt.Printf("Store name:  %s\n", snap.Store.Name)
	}

	if claims, err := session.ParseClaims(app.store.AccessToken()); err == nil && claims.ExpiresAt != nil {
		fmt.Printf("Token exp:   %s\n", claims.ExpiresAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
