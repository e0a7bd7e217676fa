package cli

import (
	"context"
	"time"

	"github.com/theyard/yard/internal/buildinfo"
	"github.com/theyard/yard/internal/common"
)

func (a *App) Membership(ctx context.Context) error {
	m, err := a.member.Refresh(ctx)
	if err != nil {
		return err
	}

	a.printf("Plan:   %s\n", m.Plan)
	if m.Subscription == nil {
		a.printf("Status: no membership. Type 'pricing' to see plans.\n")
		return nil
	}
	status := "inactive"
	if m.Active {
		status = "active"
	}
	a.printf("Status: %s (%s)\n", status, m.Subscription.Status)
	if !m.Subscription.CurrentPeriodEnd.IsZero() {
		a.printf("Period ends: %s\n", m.Subscription.CurrentPeriodEnd.Local().Format(time.DateOnly))
	}
	a.printf("Pets allowed: %d\n", m.Subscription.AllowedPets)
	return nil
}

func (a *App) open(ctx context.Context, url string) error {
	if err := a.openURL(url); err != nil {
		a.log.Warn(ctx, "browser open failed", "error", err)
		a.printf("Open %s in your browser.\n", url)
		return nil
	}
	a.printf("Opened %s\n", url)
	return nil
}

func (a *App) Pricing(ctx context.Context) error {
	return a.open(ctx, a.membership.PricingURL())
}

func (a *App) Manage(ctx context.Context) error {
	if _, err := a.session.Identity(); err != nil {
		return err
	}
	return a.open(ctx, a.membership.ManageURL())
}

func (a *App) Dashboard(ctx context.Context) error {
	d, err := a.dash.Refresh(ctx)
	if err != nil {
		return err
	}

	if d.Active {
		a.printf("Membership: active\n")
	} else {
		a.printf("Membership: inactive\n")
	}
	a.printf("Pack: %s\n", d.SlotsUsed())
	if d.Active && d.RenewsAt != nil {
		a.printf("Renews: %s\n", d.RenewsAt.Local().Format(time.DateOnly))
	}
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.profileRes.Refresh(ctx)
	if err != nil {
		return err
	}

	a.printf("Email:   %s\n", p.User.Email)
	if !p.User.CreatedAt.IsZero() {
		a.printf("Member since: %s\n", p.User.CreatedAt.Local().Format(time.DateOnly))
	}
	a.printf("Pets:    %d\n", p.PetCount)
	a.printf("Terms:   %s\n", termsLabel(p.User.AcceptedTermsVersion))
	a.printf("Version: %s\n", buildinfo.Version())
	a.printf("Support: %s\n", common.SupportURL)
	return nil
}

func termsLabel(version string) string {
	if version == "" {
		return "not accepted"
	}
	return "accepted " + version
}
