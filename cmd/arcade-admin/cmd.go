package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type userProvisioner interface {
	ProvisionUser(ctx context.Context, req service.ProvisionUserRequest) (*models.User, error)
}

type contentSeeder interface {
	SeedDefaults(ctx context.Context) (map[string]bool, error)
}

type statusEvaluator interface {
	At(ctx context.Context, at time.Time) (models.LiveStatus, error)
}

type commandLine struct {
	users  userProvisioner
	seeder contentSeeder
	status statusEvaluator
	out    io.Writer
	now    func() time.Time
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME [-role ADMIN|EDITOR] - create or update a console user; the password is prompted next")
	fmt.Fprintln(cli.out, "  seed - write the default rosters, timetable and settings when absent")
	fmt.Fprintln(cli.out, "  status [-at RFC3339] - print the live status")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "adduser":
		return cli.addUser(ctx, args[2:])
	case "seed":
		return cli.seed(ctx)
	case "status":
		return cli.printStatus(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) addUser(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	email := cmd.String("email", "", "The user's email, used to sign in.")
	name := cmd.String("name", "", "The user's full name.")
	role := cmd.String("role", string(models.RoleEditor), "ADMIN or EDITOR.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *email == "" || *name == "" {
		cmd.Usage()
		return errHelp
	}

	userRole := models.UserRole(strings.ToUpper(*role))
	if !userRole.Valid() {
		return fmt.Errorf("unknown role %q", *role)
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return errHelp
	}

	user, err := cli.users.ProvisionUser(ctx, service.ProvisionUserRequest{
		Email:    *email,
		FullName: *name,
		Role:     userRole,
		Password: string(pwd),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %s (%s) saved with id %s\n", user.Email, user.Role, user.ID)
	return nil
}

func (cli *commandLine) seed(ctx context.Context) error {
	seeded, err := cli.seeder.SeedDefaults(ctx)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(seeded))
	for id := range seeded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		state := "already present"
		if seeded[id] {
			state = "seeded"
		}
		fmt.Fprintf(cli.out, "%s: %s\n", id, state)
	}
	return nil
}

func (cli *commandLine) printStatus(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("status", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	at := cmd.String("at", "", "Evaluate at this RFC3339 instant instead of now.")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	when := cli.now()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("-at must be RFC3339: %w", err)
		}
		when = parsed
	}

	status, err := cli.status.At(ctx, when)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(status)
}
