package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/policyinsight/internal/client/session"
	"github.com/dmitrijs2005/policyinsight/internal/common"
)

// getSimpleText, getOptionalText and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getOptionalText = GetOptionalText
var getPassword = GetPassword

// readPasswordString prompts for a password and returns it as a string,
// wiping the byte slice it was read into.
func (a *App) readPasswordString(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Login prompts for email and password and logs in. Guest commands make
// sure a CSRF token is held first, since logout clears it.
func (a *App) Login(ctx context.Context) error {
	a.session.EnsureCSRFToken(ctx)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := a.readPasswordString("Enter password")
	if err != nil {
		return err
	}

	res := a.session.Login(ctx, email, password)
	if !res.Success {
		printlnFn("Login failed:", res.Error)
		return nil
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", res.Data.Name))
	return nil
}

// Register prompts for the signup form and creates an account. The user
// still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	a.session.EnsureCSRFToken(ctx)

	var form session.SignupForm
	var err error

	if form.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if form.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if form.Phone, err = getSimpleText(a.reader, "Enter phone (digits only)", a.out); err != nil {
		return err
	}
	if form.Password, err = a.readPasswordString("Enter password"); err != nil {
		return err
	}
	if form.PasswordConfirm, err = a.readPasswordString("Repeat password"); err != nil {
		return err
	}
	if err := session.ValidatePasswordConfirm(form.Password, form.PasswordConfirm); err != nil {
		printlnFn("Registration failed:", err)
		return nil
	}

	res := a.session.Signup(ctx, form)
	if !res.Success {
		printlnFn("Registration failed:", res.Error)
		return nil
	}

	if res.Message != "" {
		printlnFn(res.Message)
	}
	printlnFn("Registration complete. Use 'login' to sign in.")
	return nil
}

// FindID looks up the account id registered for an email address.
func (a *App) FindID(ctx context.Context) error {
	a.session.EnsureCSRFToken(ctx)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	res := a.session.FindID(ctx, email)
	if !res.Success {
		printlnFn("Lookup failed:", res.Error)
		return nil
	}

	printlnFn("Your account id:", res.Data)
	return nil
}

// ResetPassword sets a new password for an account id without logging in.
func (a *App) ResetPassword(ctx context.Context) error {
	a.session.EnsureCSRFToken(ctx)

	id, err := getSimpleText(a.reader, "Enter account id", a.out)
	if err != nil {
		return err
	}

	password, err := a.readPasswordString("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := a.readPasswordString("Repeat new password")
	if err != nil {
		return err
	}

	if err := session.ValidatePasswordConfirm(password, confirm); err != nil {
		printlnFn("Password change failed:", err)
		return nil
	}

	res := a.session.ChangePasswordNoLogin(ctx, id, password)
	if !res.Success {
		printlnFn("Password change failed:", res.Error)
		return nil
	}

	printlnFn("Password changed. Use 'login' to sign in.")
	return nil
}

// Logout ends the session locally and on the server.
func (a *App) Logout(ctx context.Context) error {
	a.userLogout = true
	defer func() { a.userLogout = false }()

	a.session.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}
