// Command adminctl provisions an administrator account from the terminal.
// It talks to the database directly, so it must run with the same
// configuration as the server.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/avolkovs/talentdesk/internal/logging"
	"github.com/avolkovs/talentdesk/internal/server"
	"github.com/avolkovs/talentdesk/internal/server/config"
	"github.com/avolkovs/talentdesk/internal/server/models"
	"github.com/avolkovs/talentdesk/internal/server/services"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt + ": ")
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt + ": ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	service, closeDB, err := server.NewAdminService(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer closeDB()

	reader := bufio.NewReader(os.Stdin)

	email, err := promptLine(reader, "Administrator email")
	if err != nil {
		log.Fatalf("%v", err)
	}
	givenName, err := promptLine(reader, "Given name")
	if err != nil {
		log.Fatalf("%v", err)
	}
	familyName, err := promptLine(reader, "Family name")
	if err != nil {
		log.Fatalf("%v", err)
	}

	password, err := promptPassword("Password")
	if err != nil {
		log.Fatalf("%v", err)
	}
	confirm, err := promptPassword("Repeat password")
	if err != nil {
		log.Fatalf("%v", err)
	}
	if password != confirm {
		log.Fatal("passwords do not match")
	}

	result, err := service.Provision(ctx, &services.RegistrationRequest{
		Email:      email,
		Password:   password,
		GivenName:  givenName,
		FamilyName: familyName,
		Role:       models.RoleAdministrator,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("administrator %s created (id %s)\n", result.Account.Email, result.Account.ID)
}
