package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/middleware"
)

// hashPassword prints a bcrypt hash for ADMIN_PASSWORD_HASH. On a terminal
// the password is read without echo; otherwise the first line of in is used.
func hashPassword(in *os.File, out io.Writer) error {
	var plain string
	if term.IsTerminal(int(in.Fd())) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}
		plain = string(b)
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		plain = strings.TrimRight(line, "\r\n")
	}
	if plain == "" {
		return errors.New("empty password")
	}

	hash, err := middleware.HashPassword(plain)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
