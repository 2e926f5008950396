package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/client/session"
	"github.com/dmitrijs2005/policyinsight/internal/client/tokenstore"
	"github.com/golang-jwt/jwt/v5"
)

func printUser(u session.User) {
	id := u.ID
	if id == "" {
		id = "-"
	}
	printlnFn(fmt.Sprintf("ID:    %s\nEmail: %s\nName:  %s\nPhone: %s\nImage: %s", id, u.Email, u.Name, u.Phone, u.ProfileImage))
}

// Me reloads and prints the profile.
func (a *App) Me(ctx context.Context) error {
	res := a.session.RefreshUser(ctx)
	if !res.Success {
		printlnFn("Could not load profile:", res.Error)
		return nil
	}
	printUser(res.Data)
	return nil
}

// Edit updates phone and profile image; empty answers keep the old value.
func (a *App) Edit(ctx context.Context) error {
	phone, err := getOptionalText(a.reader, "New phone", a.out)
	if err != nil {
		return err
	}
	image, err := getOptionalText(a.reader, "New profile image URL", a.out)
	if err != nil {
		return err
	}

	if phone == nil && image == nil {
		printlnFn("Nothing to change.")
		return nil
	}

	res := a.session.UpdateUserInfo(ctx, session.UpdateUserRequest{Phone: phone, Image: image})
	if !res.Success {
		printlnFn("Update failed:", res.Error)
		return nil
	}
	printUser(res.Data)
	return nil
}

// VerifyPassword re-checks the password of the logged-in user.
func (a *App) VerifyPassword(ctx context.Context) error {
	password, err := a.readPasswordString("Enter password")
	if err != nil {
		return err
	}

	res := a.session.VerifyPasswordLogin(ctx, password)
	if !res.Success {
		printlnFn("Verification failed:", res.Error)
		return nil
	}
	printlnFn(fmt.Sprintf("%s (%s)", res.Data.Title, res.Data.Date))
	return nil
}

// Delete removes the account after an explicit confirmation.
func (a *App) Delete(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type DELETE to remove your account", a.out)
	if err != nil {
		return err
	}
	if answer != "DELETE" {
		printlnFn("Cancelled.")
		return nil
	}

	a.userLogout = true
	defer func() { a.userLogout = false }()

	res := a.session.DeleteAccount(ctx)
	if !res.Success {
		printlnFn("Deletion failed:", res.Error)
		return nil
	}
	if res.Message != "" {
		printlnFn(res.Message)
	}
	printlnFn("Account deleted.")
	return nil
}

// tokenExpiry reads the exp claim of a JWT without verifying it.
func tokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func describeToken(kind tokenstore.Kind, value string, ok bool) string {
	if !ok {
		return fmt.Sprintf("%-13s absent", string(kind)+":")
	}
	if exp, ok := tokenExpiry(value); ok {
		return fmt.Sprintf("%-13s present, expires %s", string(kind)+":", exp.Local().Format(time.RFC3339))
	}
	return fmt.Sprintf("%-13s present", string(kind)+":")
}

// Status prints what the credential store holds. Token values are never shown.
func (a *App) Status(ctx context.Context) error {
	var b strings.Builder

	if u, ok := a.session.State().User(); ok {
		fmt.Fprintf(&b, "Logged in as %s\n", u.Email)
	} else {
		b.WriteString("Not logged in\n")
	}
	fmt.Fprintf(&b, "Server: %s (store: %s)\n", a.config.BaseURL(), a.config.Store)

	for _, k := range tokenstore.AllKinds {
		v, ok := a.store.Get(ctx, k)
		b.WriteString(describeToken(k, v, ok))
		b.WriteString("\n")
	}

	printlnFn(strings.TrimRight(b.String(), "\n"))
	return nil
}
