package cli

import (
	"context"

	"github.com/theyard/yard/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// SignUp creates an account. Depending on the auth service settings the
// address may have to be confirmed before the first login.
func (a *App) SignUp(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.auth.SignUp(ctx, email, string(password))
	if err != nil {
		return err
	}
	a.printf("Account created for %s. Check your inbox if confirmation is required, then login.\n", id.Email)
	return nil
}

// Login signs in with email and password and runs the terms gate.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.auth.SignIn(ctx, email, string(password))
	if err != nil {
		return err
	}
	a.printf("Welcome, %s!\n", s.User.Email)
	return a.TermsGate(ctx)
}

// Google signs in through the federated provider. A cancelled prompt or a
// sign-in already in progress does nothing.
func (a *App) Google(ctx context.Context) error {
	s, err := a.auth.SignInWithProvider(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	a.printf("Welcome, %s!\n", s.User.Email)
	return a.TermsGate(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotSignedIn
	}
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	a.printf("Signed out.\n")
	return nil
}
