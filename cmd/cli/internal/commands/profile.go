package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/qaiserfcc/cloud-pos-cli/internal/guard"
	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
	"github.com/qaiserfcc/cloud-pos-cli/internal/session"
)

// ProfileCmd manages the authenticated user's own profile.
type ProfileCmd struct {
	Show           ProfileShowCmd           `cmd:"" default:"1" help:"Show the profile"`
	Update         ProfileUpdateCmd         `cmd:"" help:"Update profile fields"`
	ChangePassword ProfileChangePasswordCmd `cmd:"" name:"change-password" help:"Change the account password"`
}

// ProfileShowCmd fetches and prints the server-side profile.
type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true}); err != nil {
		return err
	}

	user, err := app.client.Auth.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	fmt.Printf("Name:   %s\n", user.FullName())
	fmt.Printf("Email:  %s\n", user.Email)
	if user.Phone != nil {
		fmt.Printf("Phone:  %s\n", *user.Phone)
	}
	fmt.Printf("Roles:  %s\n", orDash(strings.Join(user.Roles, ", ")))
	fmt.Printf("Active: %s\n", yesNo(user.IsActive))
	if user.LastLoginAt != nil {
		fmt.Printf("Last login: %s\n", user.LastLoginAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

// ProfileUpdateCmd updates mutable profile fields. Only the provided flags
// are sent.
type ProfileUpdateCmd struct {
	FirstName string `help:"New first name"`
	LastName  string `help:"New last name"`
	Phone     string `help:"New phone number"`
}

func (c *ProfileUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true}); err != nil {
		return err
	}

	fields := map[string]any{}
	if c.FirstName != "" {
		fields["firstName"] = c.FirstName
	}
	if c.LastName != "" {
		fields["lastName"] = c.LastName
	}
	if c.Phone != "" {
		fields["phone"] = c.Phone
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update: provide at least one of --first-name, --last-name, --phone")
	}

	user, err := app.client.Auth.UpdateProfile(ctx, fields)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	fmt.Printf("Updated profile for %s\n", user.Email)
	return nil
}

// ProfileChangePasswordCmd rotates the account password. Inputs are
// validated locally before the request is sent.
type ProfileChangePasswordCmd struct {
	Current string `help:"Current password. Prompted when omitted."`
	New     string `help:"New password. Prompted when omitted."`
}

func (c *ProfileChangePasswordCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	if err := app.requireAccess(guard.Requirements{RequireAuth: true}); err != nil {
		return err
	}

	current := c.Current
	if current == "" {
		current, err = promptLine("Current password: ")
		if err != nil {
			return err
		}
	}
	next := c.New
	if next == "" {
		next, err = promptLine("New password: ")
		if err != nil {
			return err
		}
	}

	if err := session.ValidatePasswordChange(current, next); err != nil {
		return err
	}

	if err := app.client.Auth.ChangePassword(ctx, models.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	fmt.Println("Password changed.")
	return nil
}
