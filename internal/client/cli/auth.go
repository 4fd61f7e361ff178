package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkproof/internal/common"
)

var errPasswordMismatch = errors.New("passwords do not match")

// Swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) readCredentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "User name", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register prompts for a user name and a password typed twice, then creates
// the account. Both password copies are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return errPasswordMismatch
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.Register(ctx, userName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success! You can log in now.")
	return nil
}

// Login prompts for credentials and authenticates against the server. The
// session is stored so the next start logs in automatically.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.Login(ctx, userName, password); err != nil {
		return err
	}

	a.setUser(userName)
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Logged in as %s\n", userName)
	return nil
}

// Logout revokes the session and wipes local data. The user is logged out
// locally even when the server cannot be told.
func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err := a.authService.Logout(ctx)
	a.setUser("")
	if err != nil {
		return fmt.Errorf("logged out locally, server not notified: %w", err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
