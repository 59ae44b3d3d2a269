package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"tripplan/internal/config"
	"tripplan/internal/encryption"
	"tripplan/internal/planner"
	"tripplan/internal/store"
	"tripplan/internal/weather"
)

// ErrKeysNotInitialized is returned when encryption is enabled but no key
// pair exists yet.
var ErrKeysNotInitialized = errors.New("encryption keys not initialized")

// ErrAmbiguousTrip is returned by FindTrip when a name matches several trips.
var ErrAmbiguousTrip = errors.New("trip name is ambiguous")

// PassphraseFunc supplies the passphrase that unlocks stored data.
type PassphraseFunc func() (string, error)

// Options tune NewTripApp.
type Options struct {
	// Operation names the CLI command being run (e.g. "trip add").
	Operation string
	// Passphrase is consulted only when encryption is enabled.
	Passphrase PassphraseFunc
	// Verbose echoes every log line to stderr, not just warnings.
	Verbose bool
	// Clock defaults to planner.RealClock.
	Clock planner.Clock
}

// TripApp is the application layer between the surfaces (CLI, API) and the
// planner. It constructs all dependencies from config and owns their
// lifecycle. The caller must call Close when done.
type TripApp struct {
	cfg     *config.Config
	store   planner.Store
	repo    *planner.Repository
	weather *weather.Client
	clock   planner.Clock
	logger  planner.Logger
	op      *Operation
	logFile *os.File
}

// NewTripApp creates a fully wired TripApp from the given config.
func NewTripApp(ctx context.Context, cfg *config.Config, opts Options) (*TripApp, error) {
	clock := opts.Clock
	if clock == nil {
		clock = planner.RealClock{}
	}
	op := NewOperation(opts.Operation, clock)

	slogger, logFile, err := newLogger(cfg.LogDir, op.ID, cfg.LogLevel, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	s, err := store.NewStoreFromConfig(ctx, cfg.Store)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	sealed, err := sealIfEnabled(s, cfg.Encryption, opts.Passphrase)
	if err != nil {
		s.Close()
		logFile.Close()
		return nil, err
	}
	s = sealed

	repo, err := planner.NewRepository(ctx, s, logger, planner.UUIDGenerator{})
	if err != nil {
		s.Close()
		logFile.Close()
		return nil, fmt.Errorf("opening trips: %w", err)
	}

	logger.Debug("operation started", "operation", op.Name, "store", cfg.Store.Type)

	return &TripApp{
		cfg:     cfg,
		store:   s,
		repo:    repo,
		weather: weather.NewClientFromConfig(cfg.Weather),
		clock:   clock,
		logger:  logger,
		op:      op,
		logFile: logFile,
	}, nil
}

// sealIfEnabled wraps s in a SealedStore when encryption is configured.
func sealIfEnabled(s planner.Store, cfg config.EncryptionConfig, passphrase PassphraseFunc) (planner.Store, error) {
	enc, err := encryption.NewEncryptorFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if enc == nil {
		return s, nil
	}
	if !enc.IsConfigured() {
		return nil, ErrKeysNotInitialized
	}
	if passphrase == nil {
		return nil, fmt.Errorf("encryption is enabled but no passphrase source was given")
	}

	p, err := passphrase()
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	dc, err := enc.Unlock(p)
	if err != nil {
		return nil, fmt.Errorf("unlocking store: %w", err)
	}
	return store.NewSealedStore(s, enc, dc), nil
}

// InitKeys generates the encryption key pair configured in cfg.
func InitKeys(cfg config.EncryptionConfig, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if enc == nil {
		return fmt.Errorf("encryption is disabled; set [encryption] type = \"age\" first")
	}
	return enc.Setup(passphrase)
}

// Repo returns the trip repository.
func (a *TripApp) Repo() *planner.Repository { return a.repo }

// Weather returns the weather client.
func (a *TripApp) Weather() *weather.Client { return a.weather }

// Clock returns the clock used for countdowns.
func (a *TripApp) Clock() planner.Clock { return a.clock }

// Logger returns the operation's logger.
func (a *TripApp) Logger() planner.Logger { return a.logger }

// Config returns the loaded configuration.
func (a *TripApp) Config() *config.Config { return a.cfg }

// FindTrip resolves ref to a trip: first by exact id, then by
// case-insensitive name, then by id prefix. A ref matching several trips by
// name or prefix yields ErrAmbiguousTrip.
func (a *TripApp) FindTrip(ref string) (planner.Trip, error) {
	trips := a.repo.Trips()
	for _, t := range trips {
		if string(t.ID) == ref {
			return t, nil
		}
	}

	matchers := []func(planner.Trip) bool{
		func(t planner.Trip) bool { return strings.EqualFold(t.Name, ref) },
		func(t planner.Trip) bool { return ref != "" && strings.HasPrefix(string(t.ID), ref) },
	}
	for _, match := range matchers {
		var found []planner.Trip
		for _, t := range trips {
			if match(t) {
				found = append(found, t)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return planner.Trip{}, fmt.Errorf("%w: %q matches %d trips", ErrAmbiguousTrip, ref, len(found))
		}
	}
	return planner.Trip{}, fmt.Errorf("trip %q: %w", ref, planner.ErrNotFound)
}

// Close releases the store and the log file.
func (a *TripApp) Close() error {
	a.logger.Debug("operation finished", "operation", a.op.Name, "elapsed", a.op.Elapsed(a.clock))

	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
