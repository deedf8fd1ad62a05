package annotation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/medseg/scanflow/internal/service"
)

// ErrPromptCancelled is returned when the credential prompt is
// interrupted by context cancellation.
var ErrPromptCancelled = errors.New("credential prompt canceled")

// CredentialPrompter collects annotation-service credentials
// immediately before the call that needs them. Nothing read here is
// ever stored; the credentials live only in the request payload.
type CredentialPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewCredentialPrompter creates a prompter reading from in and writing
// prompts to out. Pass os.Stdin/os.Stderr for interactive use.
func NewCredentialPrompter(in io.Reader, out io.Writer) *CredentialPrompter {
	return &CredentialPrompter{in: in, out: out}
}

// Prompt asks for a username and password, honoring context
// cancellation while the read is pending.
func (p *CredentialPrompter) Prompt(ctx context.Context) (service.Credentials, error) {
	username, err := p.readLine(ctx, "Annotation service username: ")
	if err != nil {
		return service.Credentials{}, err
	}

	password, err := p.readPassword(ctx, "Annotation service password: ")
	if err != nil {
		return service.Credentials{}, err
	}

	return service.Credentials{Username: username, Password: password}, nil
}

func (p *CredentialPrompter) readLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		line, err := bufio.NewReader(p.in).ReadString('\n')
		resultCh <- result{value: strings.TrimSpace(line), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrPromptCancelled
	case res := <-resultCh:
		if res.err != nil && res.value == "" {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return res.value, nil
	}
}

// readPassword suppresses echo when the input is a real terminal and
// falls back to a plain line read otherwise (tests, piped input).
func (p *CredentialPrompter) readPassword(ctx context.Context, prompt string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.readLine(ctx, prompt)
	}

	fmt.Fprint(p.out, prompt)

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		raw, err := term.ReadPassword(int(f.Fd()))
		resultCh <- result{value: string(raw), err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ErrPromptCancelled
	case res := <-resultCh:
		fmt.Fprintln(p.out)
		if res.err != nil {
			return "", fmt.Errorf("failed to read password: %w", res.err)
		}
		return strings.TrimSpace(res.value), nil
	}
}
