package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"tripplan/internal/app"
	"tripplan/internal/planner"

	"github.com/spf13/cobra"
)

// withApp opens a TripApp for operation, runs fn and closes the app.
func withApp(cmd *cobra.Command, operation string, fn func(a *app.TripApp) error) error {
	a, err := newApp(cmd.Context(), operation)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// shortID abbreviates ids for tables; any unique prefix is accepted back.
func shortID(id planner.ID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// resolveItem finds the item whose id equals ref or, failing that, is the
// only one starting with ref.
func resolveItem[T planner.Item[T]](items []T, ref string) (T, error) {
	var zero T
	for _, it := range items {
		if string(it.ItemID()) == ref {
			return it, nil
		}
	}

	var found []T
	for _, it := range items {
		if ref != "" && strings.HasPrefix(string(it.ItemID()), ref) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return zero, fmt.Errorf("item %q: %w", ref, planner.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return zero, fmt.Errorf("item id %q matches %d items; give more characters", ref, len(found))
	}
}

// trip command
var tripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Manage trips",
}

var tripAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		destination, _ := cmd.Flags().GetString("destination")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		return withApp(cmd, "trip add", func(a *app.TripApp) error {
			trip, err := a.Repo().AddTrip(cmd.Context(), planner.Trip{
				Name:        args[0],
				Destination: destination,
				StartDate:   start,
				EndDate:     end,
			})
			if err != nil {
				return err
			}
			out.Success("Created trip %q (%s)", trip.Name, trip.ID)
			return nil
		})
	},
}

var tripListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trips",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "trip list", func(a *app.TripApp) error {
			trips := a.Repo().Trips()
			if len(trips) == 0 {
				out.Muted("No trips yet. Create one with `tripplan trip add`.")
				return nil
			}

			now := a.Clock().Now()
			rows := make([][]string, 0, len(trips))
			for _, t := range trips {
				rows = append(rows, []string{
					shortID(t.ID), t.Name, t.Destination, t.StartDate, t.EndDate, countdown(t, now),
				})
			}
			out.Table([]string{"ID", "NAME", "DESTINATION", "START", "END", "STARTS IN"}, rows)
			return nil
		})
	},
}

var tripShowCmd = &cobra.Command{
	Use:   "show TRIP",
	Short: "Show a trip and what is planned for it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "trip show", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			b, err := a.Repo().Bundle(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}

			packed := 0
			for _, p := range b.PackingList {
				if p.Checked {
					packed++
				}
			}

			out.Heading("%s", b.Trip.Name)
			out.Table([]string{"FIELD", "VALUE"}, [][]string{
				{"id", string(b.Trip.ID)},
				{"destination", b.Trip.Destination},
				{"dates", b.Trip.StartDate + " to " + b.Trip.EndDate},
				{"starts in", countdown(b.Trip, a.Clock().Now())},
				{"notes", strconv.Itoa(len(b.Notes))},
				{"restaurants", strconv.Itoa(len(b.RestaurantNotes))},
				{"sights", strconv.Itoa(len(b.SightNotes))},
				{"todos", strconv.Itoa(len(b.Todos))},
				{"packed", fmt.Sprintf("%d/%d", packed, len(b.PackingList))},
			})
			return nil
		})
	},
}

var tripRmCmd = &cobra.Command{
	Use:   "rm TRIP",
	Short: "Delete a trip",
	Long: `Delete a trip from the trip list.

Notes, todos and the packing list stay in storage unless --purge is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		purge, _ := cmd.Flags().GetBool("purge")

		return withApp(cmd, "trip rm", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			if purge {
				err = a.Repo().PurgeTrip(cmd.Context(), trip.ID)
			} else {
				err = a.Repo().DeleteTrip(cmd.Context(), trip.ID)
			}
			if err != nil {
				return err
			}
			if purge {
				out.Success("Deleted trip %q and everything stored for it", trip.Name)
			} else {
				out.Success("Deleted trip %q", trip.Name)
			}
			return nil
		})
	},
}

var tripDaysCmd = &cobra.Command{
	Use:   "days TRIP",
	Short: "List the days of a trip, marking days with todos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "trip days", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			days, err := planner.TripDays(trip)
			if err != nil {
				return err
			}
			busy, err := a.Repo().TodoDates(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(days))
			for _, d := range days {
				mark := ""
				if slices.Contains(busy, d) {
					mark = "•"
				}
				rows = append(rows, []string{d, mark})
			}
			out.Table([]string{"DAY", "TODOS"}, rows)
			return nil
		})
	},
}

// countdown renders the days until a trip starts.
func countdown(trip planner.Trip, now time.Time) string {
	days, err := planner.DaysUntil(trip, now)
	switch {
	case err != nil:
		return "?"
	case days > 1:
		return fmt.Sprintf("%d days", days)
	case days == 1:
		return "1 day"
	case days == 0:
		return "today"
	default:
		return "started"
	}
}

func init() {
	tripAddCmd.Flags().StringP("destination", "d", "", "Where the trip goes")
	tripAddCmd.Flags().String("start", "", "First day (YYYY-MM-DD or RFC 3339)")
	tripAddCmd.Flags().String("end", "", "Last day (YYYY-MM-DD or RFC 3339)")
	_ = tripAddCmd.MarkFlagRequired("destination")
	_ = tripAddCmd.MarkFlagRequired("start")
	_ = tripAddCmd.MarkFlagRequired("end")

	tripRmCmd.Flags().Bool("purge", false, "Also delete notes, todos and packing list")

	tripCmd.AddCommand(tripAddCmd)
	tripCmd.AddCommand(tripListCmd)
	tripCmd.AddCommand(tripShowCmd)
	tripCmd.AddCommand(tripRmCmd)
	tripCmd.AddCommand(tripDaysCmd)
	rootCmd.AddCommand(tripCmd)
}
