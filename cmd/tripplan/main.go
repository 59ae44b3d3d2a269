package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tripplan/internal/app"
	"tripplan/internal/config"
	"tripplan/internal/planner"
	"tripplan/internal/printer"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	out     = printer.New(os.Stdout, os.Stderr)
	verbose bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the config file named by the defaults.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, defaults["config_path"], fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates a TripApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "trip add").
func newApp(ctx context.Context, operation string) (*app.TripApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewTripApp(ctx, cfg, app.Options{
		Operation:  operation,
		Passphrase: readPassphrase,
		Verbose:    verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// readPassphrase takes TRIPPLAN_PASSPHRASE when set, otherwise prompts on
// the terminal without echo.
func readPassphrase() (string, error) {
	if p, ok := lookupPassphraseEnv(); ok {
		return p, nil
	}
	return promptPassphrase("Passphrase: ")
}

func lookupPassphraseEnv() (string, bool) {
	return os.LookupEnv("TRIPPLAN_PASSPHRASE")
}

func promptPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal to read the passphrase from; set TRIPPLAN_PASSPHRASE")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

// errReported marks an error that was already printed.
var errReported = errors.New("already reported")

// fail prints an explained error and returns errReported.
func fail(title, explanation string, suggestions ...string) error {
	_ = out.Error(title, explanation, suggestions...)
	return errReported
}

// reportError prints err with a hint for the failures users can fix.
func reportError(err error) {
	switch {
	case errors.Is(err, errReported):
	case errors.Is(err, fs.ErrNotExist) && strings.Contains(err.Error(), "reading config"):
		_ = out.Error("No configuration found", err.Error(), "Run `tripplan config init` to create one.")
	case errors.Is(err, app.ErrKeysNotInitialized):
		_ = out.Error("Encryption keys not initialized",
			"Encryption is enabled in the config but no key pair exists.",
			"Run `tripplan keys init` to generate one.")
	case errors.Is(err, app.ErrAmbiguousTrip):
		_ = out.Error("Ambiguous trip", err.Error(), "Use the trip id shown by `tripplan trip list`.")
	case errors.Is(err, planner.ErrValidation):
		_ = out.Error("Invalid input", err.Error())
	case errors.Is(err, planner.ErrNotFound):
		_ = out.Error("Not found", err.Error())
	default:
		_ = out.Error(err.Error(), "")
	}
}

var rootCmd = &cobra.Command{
	Use:           "tripplan",
	Short:         "Plan trips: notes, itinerary and packing list",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Echo log output to stderr")
}
