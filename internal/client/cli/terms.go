package cli

import (
	"context"
	"strings"

	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/common"
)

// TermsGate checks the signed-in user against the current terms and, when
// a new version must be accepted, shows it and asks for acceptance. The
// gate stays closed until the user types accept.
func (a *App) TermsGate(ctx context.Context) error {
	id, err := a.session.Identity()
	if err != nil {
		return err
	}

	a.setGate(models.GateChecking)
	state, terms, err := a.terms.Check(ctx, id.ID)
	if err != nil {
		return err
	}
	if state == models.GateCleared {
		a.setGate(state)
		return nil
	}

	a.setGate(models.GateMustAccept)
	a.printf("\nTerms of Service (version %s)\n\n%s\n\nFull text: %s\n\n", terms.Version, terms.Text, common.TermsURL)

	answer, err := getSimpleText(a.reader, "Type 'accept' to agree and continue", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "accept") {
		a.printf("You need to accept the terms to use The Yard. Type 'terms' when ready.\n")
		return nil
	}

	state, err = a.terms.Accept(ctx, id.ID, terms.Version)
	if err != nil {
		return err
	}
	a.setGate(state)
	a.printf("Thanks! You're all set.\n")
	return nil
}
