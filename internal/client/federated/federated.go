// Package federated obtains identity tokens from a third-party identity
// provider for exchange with the auth service.
package federated

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/theyard/yard/internal/common"
)

// ErrCancelled means the user backed out of the provider prompt.
var ErrCancelled = errors.New("sign-in cancelled")

const googleAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"

type ProviderConfig struct {
	Provider    string
	WebClientID string
	Scopes      []string
}

// Google is the provider configuration used for federated sign-in.
func Google(webClientID string) ProviderConfig {
	return ProviderConfig{
		Provider:    "google",
		WebClientID: webClientID,
		Scopes:      []string{"profile", "email"},
	}
}

// AuthURL is the consent page that yields an id_token for the web client.
func (c ProviderConfig) AuthURL(nonce string) string {
	q := url.Values{}
	q.Set("client_id", c.WebClientID)
	q.Set("response_type", "id_token")
	q.Set("scope", strings.Join(append([]string{"openid"}, c.Scopes...), " "))
	q.Set("nonce", nonce)
	q.Set("prompt", "select_account")
	return googleAuthURL + "?" + q.Encode()
}

type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// PromptTokenSource sends the user to the consent page and reads the
// resulting id_token from the terminal. An empty answer cancels.
type PromptTokenSource struct {
	cfg  ProviderConfig
	in   *bufio.Reader
	out  io.Writer
	open func(string) error
}

func NewPromptTokenSource(cfg ProviderConfig, in *bufio.Reader, out io.Writer, open func(string) error) *PromptTokenSource {
	return &PromptTokenSource{cfg: cfg, in: in, out: out, open: open}
}

func (p *PromptTokenSource) IDToken(ctx context.Context) (string, error) {
	nonce, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}
	link := p.cfg.AuthURL(nonce)

	if p.open == nil || p.open(link) != nil {
		fmt.Fprintf(p.out, "Open this page to sign in:\n%s\n", link)
	}
	fmt.Fprint(p.out, "Paste the id_token (empty to cancel)\n> ")

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token := strings.TrimSpace(line)
	if token == "" {
		return "", ErrCancelled
	}
	return token, nil
}
