package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/theyard/yard/internal/client/browser"
	"github.com/theyard/yard/internal/client/config"
	"github.com/theyard/yard/internal/client/federated"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/client/services"
	"github.com/theyard/yard/internal/client/session"
	"github.com/theyard/yard/internal/client/view"
	"github.com/theyard/yard/internal/logging"
)

var errTermsPending = errors.New("the terms of service must be accepted first (type 'terms')")

type App struct {
	config  *config.Config
	backend *Backend
	log     logging.Logger

	session    *session.Provider
	auth       services.AuthService
	terms      services.TermsService
	pets       services.PetService
	membership services.MembershipService
	checkins   services.CheckInService
	dashboard  services.DashboardService
	profile    services.ProfileService

	petList    *view.Resource[[]models.Pet]
	history    *view.Resource[[]models.CheckInEntry]
	dash       *view.Resource[*models.Dashboard]
	member     *view.Resource[*models.Membership]
	profileRes *view.Resource[*models.Profile]

	reader  *bufio.Reader
	out     io.Writer
	openURL func(string) error

	mu   sync.Mutex
	gate models.GateState
}

// NewApp builds the backend selected in c and wires the services over it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	b, err := NewBackend(ctx, c, log)
	if err != nil {
		return nil, err
	}
	return newApp(c, b, bufio.NewReader(os.Stdin), os.Stdout, log), nil
}

func newApp(c *config.Config, b *Backend, reader *bufio.Reader, out io.Writer, log logging.Logger) *App {
	a := &App{
		config:  c,
		backend: b,
		log:     log,
		reader:  reader,
		out:     out,
		openURL: browser.Open,
		gate:    models.GateChecking,
	}

	tokens := federated.NewPromptTokenSource(federated.Google(c.GoogleWebClientID), reader, out, func(u string) error {
		return a.openURL(u)
	})

	a.session = session.NewProvider(b.Auth, log)
	// every identity change re-runs the terms gate
	a.session.Subscribe(func(*models.Session) { a.setGate(models.GateChecking) })
	a.auth = services.NewAuthService(b.Auth, b.Store, tokens, "google", log)
	a.terms = services.NewTermsService(b.Store, log)
	a.pets = services.NewPetService(b.Store, b.Uploader, log)
	a.membership = services.NewMembershipService(b.Store, c.PricingURL, c.ManageURL, log)
	a.checkins = services.NewCheckInService(b.Store, log)
	a.dashboard = services.NewDashboardService(b.Store, log)
	a.profile = services.NewProfileService(b.Store)

	a.petList = view.NewResource(func(ctx context.Context) ([]models.Pet, error) {
		id, err := a.requireUser()
		if err != nil {
			return nil, err
		}
		return a.pets.List(ctx, id.ID)
	})
	a.history = view.NewResource(func(ctx context.Context) ([]models.CheckInEntry, error) {
		id, err := a.requireUser()
		if err != nil {
			return nil, err
		}
		return a.checkins.History(ctx, id.ID)
	})
	a.dash = view.NewResource(func(ctx context.Context) (*models.Dashboard, error) {
		id, err := a.requireUser()
		if err != nil {
			return nil, err
		}
		return a.dashboard.Get(ctx, id.ID)
	})
	a.member = view.NewResource(func(ctx context.Context) (*models.Membership, error) {
		id, err := a.requireUser()
		if err != nil {
			return nil, err
		}
		return a.membership.Get(ctx, id.ID)
	})
	a.profileRes = view.NewResource(func(ctx context.Context) (*models.Profile, error) {
		id, err := a.requireUser()
		if err != nil {
			return nil, err
		}
		return a.profile.Get(ctx, id.ID)
	})

	return a
}

func (a *App) setGate(g models.GateState) {
	a.mu.Lock()
	a.gate = g
	a.mu.Unlock()
}

func (a *App) gateState() models.GateState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gate
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.Current()
	return ok
}

// requireUser resolves the signed-in user for screens behind the terms gate.
func (a *App) requireUser() (models.Identity, error) {
	id, err := a.session.Identity()
	if err != nil {
		return models.Identity{}, err
	}
	if a.gateState() != models.GateCleared {
		return models.Identity{}, errTermsPending
	}
	return id, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail shows err as a blocking notice.
func (a *App) fail(err error) {
	if err != nil {
		a.printf("Error: %s\n", err.Error())
	}
}

func (a *App) status() string {
	s, ok := a.session.Current()
	if !ok {
		return ""
	}
	return s.User.Email
}

// Run restores the session, clears the terms gate and serves commands until
// exit or end of input.
func (a *App) Run(ctx context.Context) {
	defer func() {
		a.session.Close()
		if err := a.backend.Close(); err != nil {
			a.log.Error(ctx, "backend close failed", "error", err)
		}
	}()

	a.printf("Welcome to The Yard (type 'help' for commands)\n")
	if err := a.session.Start(ctx); err != nil {
		a.fail(err)
	}
	if a.isLoggedIn() {
		a.fail(a.TermsGate(ctx))
	}

	runREPL(ctx, a, a.status, a.reader)
}
