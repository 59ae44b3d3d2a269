package main

import (
	"fmt"
	"net/url"

	"tripplan/internal/app"
	"tripplan/internal/config"

	"github.com/spf13/cobra"
)

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out.Success("Configuration initialized at %s", defaults["config_path"])
		out.Info("Base Dir: %s", cfg.BaseDir)
		out.Info("Store:    %s (%s)", cfg.Store.Type, cfg.Store.FSRoot)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		out.Heading("Configuration from %s:", path)
		rows := [][]string{
			{"base_dir", cfg.BaseDir},
			{"log_dir", cfg.LogDir},
			{"log_level", cfg.LogLevel},
			{"store.type", cfg.Store.Type},
		}
		switch cfg.Store.Type {
		case "filesystem":
			rows = append(rows, []string{"store.fs_root", cfg.Store.FSRoot})
		case "sqlite":
			rows = append(rows, []string{"store.sqlite_path", cfg.Store.SQLitePath})
		case "redis":
			rows = append(rows,
				[]string{"store.redis_addr", cfg.Store.RedisAddr},
				[]string{"store.redis_namespace", cfg.Store.RedisNamespace})
		case "s3":
			rows = append(rows,
				[]string{"store.s3_bucket", cfg.Store.S3Bucket},
				[]string{"store.s3_prefix", cfg.Store.S3Prefix},
				[]string{"store.s3_region", cfg.Store.S3Region})
		case "postgres":
			rows = append(rows, []string{"store.postgres_url", redactURL(cfg.Store.PostgresURL)})
		}

		encryption := "off"
		if cfg.Encryption.Enabled() {
			encryption = cfg.Encryption.Type
		}
		weatherKey := "not set"
		if cfg.Weather.APIKey != "" {
			weatherKey = "set"
		}
		rows = append(rows,
			[]string{"encryption", encryption},
			[]string{"weather.api_key", weatherKey},
			[]string{"server.addr", cfg.Server.Addr},
		)

		out.Table([]string{"KEY", "VALUE"}, rows)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Encryption.Enabled() {
			return fail("Encryption is disabled",
				"The [encryption] section of the config has no type set.",
				`Set type = "age" under [encryption], then run this again.`)
		}

		passphrase, err := newPassphrase()
		if err != nil {
			return err
		}
		if err := app.InitKeys(cfg.Encryption, passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		out.Success("Keys written to %s and %s", cfg.Encryption.PublicKeyPath, cfg.Encryption.PrivateKeyPath)
		out.Warning("Keep your passphrase safe: stored trips cannot be read without it")
		return nil
	},
}

// redactURL hides the password of a connection URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable)"
	}
	return u.Redacted()
}

// newPassphrase reads a new passphrase, asking twice on a terminal.
func newPassphrase() (string, error) {
	if p, ok := lookupPassphraseEnv(); ok {
		return p, nil
	}
	p, err := promptPassphrase("New passphrase: ")
	if err != nil {
		return "", err
	}
	confirm, err := promptPassphrase("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if p != confirm {
		return "", fmt.Errorf("passphrases do not match")
	}
	return p, nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	keysCmd.AddCommand(keysInitCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
}
