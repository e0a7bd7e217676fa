package cli

import (
	"context"
	"time"
)

// CheckIn records the next event for the scanned badge. Without a code on
// the command line the scanner input is read from the prompt.
func (a *App) CheckIn(ctx context.Context, code string) error {
	id, err := a.requireUser()
	if err != nil {
		return err
	}
	if code == "" {
		code, err = getSimpleText(a.reader, "Scan the pet badge", a.out)
		if err != nil {
			return err
		}
	}

	e, err := a.checkins.Toggle(ctx, id.ID, code)
	if err != nil {
		return err
	}
	a.printf("%s checked %s at %s\n", e.PetName, e.Type, e.Timestamp.Local().Format(time.Kitchen))
	return nil
}

func (a *App) History(ctx context.Context) error {
	entries, err := a.history.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printf("No check-ins yet.\n")
		return nil
	}
	for _, e := range entries {
		name := e.PetName
		if name == "" {
			name = e.PetID
		}
		a.printf("%s  %-3s  %s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Type, name)
	}
	return nil
}
