// Package passphrase resolves keystore passphrases for the CLI.
package passphrase

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// EnvVar is read before falling back to a terminal prompt.
const EnvVar = "GHOST_KEYSTORE_PASSPHRASE"

// Source lazily resolves a passphrase from an environment variable or by
// prompting on the terminal. The first result is cached.
type Source struct {
	envVar string
	prompt io.Writer

	lookup     func(string) (string, bool)
	isTerminal func() bool
	read       func() ([]byte, error)

	once  sync.Once
	value string
	err   error
}

// NewSource checks envVar before prompting on stderr.
func NewSource(envVar string) *Source {
	fd := int(os.Stdin.Fd())
	return &Source{
		envVar:     strings.TrimSpace(envVar),
		prompt:     os.Stderr,
		lookup:     os.LookupEnv,
		isTerminal: func() bool { return term.IsTerminal(fd) },
		read:       func() ([]byte, error) { return term.ReadPassword(fd) },
	}
}

// Get returns the passphrase. Whitespace-only values are rejected so no
// keystore is written unprotected.
func (s *Source) Get() (string, error) {
	s.once.Do(func() {
		if s.envVar != "" {
			if value, ok := s.lookup(s.envVar); ok {
				if strings.TrimSpace(value) == "" {
					s.err = fmt.Errorf("%s is set but empty", s.envVar)
					return
				}
				s.value = value
				return
			}
		}

		if !s.isTerminal() {
			if s.envVar != "" {
				s.err = fmt.Errorf("keystore passphrase required; set %s or run interactively", s.envVar)
			} else {
				s.err = errors.New("keystore passphrase required and no terminal available")
			}
			return
		}

		fmt.Fprint(s.prompt, "Enter keystore passphrase: ")
		bytes, err := s.read()
		fmt.Fprintln(s.prompt)
		if err != nil {
			s.err = fmt.Errorf("failed to read passphrase: %w", err)
			return
		}
		passphrase := string(bytes)
		if strings.TrimSpace(passphrase) == "" {
			s.err = errors.New("keystore passphrase cannot be empty")
			return
		}
		s.value = passphrase
	})
	return s.value, s.err
}
