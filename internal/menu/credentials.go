package menu

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mahima-jayshri/studentdb/internal/database"
)

// CredentialPrompt asks for a server login on the terminal after the
// automatic attempts have failed. Blank answers take the defaults. The
// password is read without echo when the input is a real terminal.
func CredentialPrompt(in io.Reader, out io.Writer, defaults database.Credentials, defaultDB string) (database.Credentials, string, error) {
	fmt.Fprintf(out, "\n%s\n", menuRule)
	fmt.Fprintln(out, "Please enter your database credentials manually:")
	fmt.Fprintln(out, menuRule)

	reader := bufio.NewReader(in)

	host, err := promptLine(reader, out, fmt.Sprintf("Host (default: %s): ", defaults.Host))
	if err != nil {
		return database.Credentials{}, "", err
	}
	if host == "" {
		host = defaults.Host
	}

	user, err := promptLine(reader, out, fmt.Sprintf("Username (default: %s): ", defaults.User))
	if err != nil {
		return database.Credentials{}, "", err
	}
	if user == "" {
		user = defaults.User
	}

	password, err := promptPassword(reader, in, out)
	if err != nil {
		return database.Credentials{}, "", err
	}

	dbName, err := promptLine(reader, out, fmt.Sprintf("Database name (default: %s): ", defaultDB))
	if err != nil {
		return database.Credentials{}, "", err
	}
	if dbName == "" {
		dbName = defaultDB
	}

	cred := database.Credentials{
		Host:     host,
		Port:     defaults.Port,
		User:     user,
		Password: password,
	}
	return cred, dbName, nil
}

func promptLine(r *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(r *bufio.Reader, in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Password (press Enter if none): ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(password), nil
	}

	// Not a terminal: fall back to a plain line read so scripted input
	// still works.
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
