// Package main is the entry point for the Estancia admin CLI. It talks to
// the configured backend directly, without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/app"
	"github.com/solera-labs/estancia/internal/cache/memory"
	"github.com/solera-labs/estancia/internal/config"
	"github.com/solera-labs/estancia/internal/lock"
	"github.com/solera-labs/estancia/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// defaultAmenities seeds a starting catalogue for fresh deployments.
var defaultAmenities = []string{
	"WiFi",
	"Air conditioning",
	"Heating",
	"Kitchen",
	"Washer",
	"Free parking",
	"Pool",
	"Pet friendly",
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "version":
		fmt.Printf("Estancia Admin Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	facade, cleanup, err := openFacade(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := run(ctx, facade, args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, facade *service.Facade, args []string) error {
	switch args[0] {
	case "user":
		if len(args) < 2 {
			return fmt.Errorf("usage: estancia-admin user <create-admin|list>")
		}
		switch args[1] {
		case "create-admin":
			return createAdmin(ctx, facade, args[2:])
		case "list":
			return listUsers(ctx, facade)
		default:
			return fmt.Errorf("unknown user command: %s", args[1])
		}

	case "amenity":
		if len(args) < 2 || args[1] != "seed" {
			return fmt.Errorf("usage: estancia-admin amenity seed")
		}
		return seedAmenities(ctx, facade)

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// createAdmin registers a user with the admin flag set.
func createAdmin(ctx context.Context, facade *service.Facade, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	firstName := fs.String("first-name", "", "first name (required)")
	lastName := fs.String("last-name", "", "last name (required)")
	email := fs.String("email", "", "email address (required)")
	password := fs.String("password", "", "password, at least 8 characters (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := facade.Users.Create(ctx, service.CreateUserInput{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  *password,
		IsAdmin:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Printf("admin created: %s (%s)\n", user.ID, user.Email)
	return nil
}

func listUsers(ctx context.Context, facade *service.Facade) error {
	users, err := facade.Users.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tADMIN\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%t\t%s\n",
			u.ID, u.Email, u.FirstName, u.LastName, u.IsAdmin,
			u.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

// seedAmenities creates the default amenity catalogue, skipping names that
// already exist.
func seedAmenities(ctx context.Context, facade *service.Facade) error {
	created := 0
	for _, name := range defaultAmenities {
		if _, err := facade.Amenities.GetByName(ctx, name); err == nil {
			continue
		}
		if _, err := facade.Amenities.Create(ctx, name, ""); err != nil {
			return fmt.Errorf("failed to seed amenity %q: %w", name, err)
		}
		created++
	}
	fmt.Printf("seeded %d amenities (%d already present)\n", created, len(defaultAmenities)-created)
	return nil
}

// openFacade builds a facade over the configured backend. The admin tool is
// single-invocation, so the no-op locker and in-process cache suffice.
func openFacade(ctx context.Context, cfg *config.Config) (*service.Facade, func(), error) {
	logger := zerolog.Nop()

	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database backend: %w", err)
	}

	cache := memory.NewCache()
	facade := service.New(service.Config{
		Repos:  *backend.Repos,
		Locker: lock.NewNoOpLocker(),
		Cache:  cache,
		Logger: logger,
	})

	cleanup := func() {
		cache.Close()
		backend.Close()
	}
	return facade, cleanup, nil
}

func printUsage() {
	fmt.Println(`Estancia Admin Tool

Usage:
  estancia-admin [-config path] <command> [arguments]

Commands:
  user create-admin   Create an administrator account
                      (-first-name, -last-name, -email, -password)
  user list           List all registered users
  amenity seed        Create the default amenity catalogue
  version             Print version information
  help                Show this help message`)
}
