package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"tripplan/internal/api"
	"tripplan/internal/app"
	"tripplan/internal/export"
	"tripplan/internal/weather"

	"github.com/spf13/cobra"
)

var weatherCmd = &cobra.Command{
	Use:   "weather CITY",
	Short: "Show current weather for a city",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "weather", func(a *app.TripApp) error {
			city := strings.Join(args, " ")
			r, err := a.Weather().Lookup(cmd.Context(), city)
			var lookupErr *weather.LookupError
			switch {
			case errors.As(err, &lookupErr):
				return fail(lookupErr.Message, fmt.Sprintf("The weather service rejected %q.", city))
			case errors.Is(err, weather.ErrNoAPIKey):
				return fail("No weather API key",
					"Weather lookups need an OpenWeatherMap API key.",
					"Set api_key under [weather] in the config.")
			case err != nil:
				return err
			}

			out.Heading("%s", r.City)
			out.Info("%s", r.Description)
			out.Table([]string{"", ""}, [][]string{
				{"temperature", fmt.Sprintf("%.1f °C", r.Temperature)},
				{"feels like", fmt.Sprintf("%.1f °C", r.FeelsLike)},
				{"wind", fmt.Sprintf("%.1f m/s", r.WindSpeed)},
			})
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export TRIP",
	Short: "Write a trip with all its notes, todos and packing list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawFormat, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format, err := export.ParseFormat(rawFormat)
		if err != nil {
			return err
		}

		return withApp(cmd, "export", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			b, err := a.Repo().Bundle(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if output != "" && output != "-" {
				f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			if err := export.Write(w, b, format); err != nil {
				return err
			}
			if w != os.Stdout {
				out.Success("Exported %q to %s", trip.Name, output)
			}
			return nil
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		// Request lines are logged at info; show them on stderr too.
		verbose = true

		return withApp(cmd, "serve", func(a *app.TripApp) error {
			if addr == "" {
				addr = a.Config().Server.Addr
			}
			srv := &http.Server{
				Addr:         addr,
				Handler:      api.NewRouter(a.Repo(), a.Weather(), a.Logger(), a.Clock()),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.Logger().Info("server starting", "addr", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()
			out.Success("Listening on %s", addr)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serving: %w", err)
				}
				return nil
			case <-cmd.Context().Done():
			}

			a.Logger().Info("shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			a.Logger().Info("server stopped")
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")

	rootCmd.AddCommand(weatherCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}
