package main

import (
	"tripplan/internal/app"
	"tripplan/internal/planner"

	"github.com/spf13/cobra"
)

// pack command
var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Manage the packing list",
}

var packAddCmd = &cobra.Command{
	Use:   "add TRIP ITEM",
	Short: "Add an item to pack",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "pack add", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			item, err := a.Repo().PackingList().Upsert(cmd.Context(), trip.ID, planner.PackItem{Title: args[1]}, true)
			if err != nil {
				return err
			}
			out.Success("Added %q (%s)", item.Title, shortID(item.ID))
			return nil
		})
	},
}

var packListCmd = &cobra.Command{
	Use:   "list TRIP",
	Short: "Show the packing list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "pack list", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			items, err := a.Repo().PackingList().List(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				out.Muted("Packing list is empty.")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, p := range items {
				box := "[ ]"
				if p.Checked {
					box = "[x]"
				}
				rows = append(rows, []string{shortID(p.ID), box, p.Title})
			}
			out.Table([]string{"ID", "", "ITEM"}, rows)
			return nil
		})
	},
}

var packCheckCmd = &cobra.Command{
	Use:   "check TRIP ITEM",
	Short: "Toggle whether an item is packed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "pack check", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			items, err := a.Repo().PackingList().List(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}
			item, err := resolveItem(items, args[1])
			if err != nil {
				return err
			}
			item, err = a.Repo().TogglePacked(cmd.Context(), trip.ID, item.ID)
			if err != nil {
				return err
			}
			if item.Checked {
				out.Success("Packed %q", item.Title)
			} else {
				out.Info("Unpacked %q", item.Title)
			}
			return nil
		})
	},
}

var packEditCmd = &cobra.Command{
	Use:   "edit TRIP ITEM TITLE",
	Short: "Rename an item on the packing list",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "pack edit", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			items, err := a.Repo().PackingList().List(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}
			item, err := resolveItem(items, args[1])
			if err != nil {
				return err
			}
			item, err = a.Repo().PackingList().Update(cmd.Context(), trip.ID, item.ID, func(p planner.PackItem) planner.PackItem {
				p.Title = args[2]
				return p
			})
			if err != nil {
				return err
			}
			out.Success("Renamed to %q", item.Title)
			return nil
		})
	},
}

var packRmCmd = &cobra.Command{
	Use:   "rm TRIP ITEM",
	Short: "Remove an item from the packing list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "pack rm", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			items, err := a.Repo().PackingList().List(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}
			item, err := resolveItem(items, args[1])
			if err != nil {
				return err
			}
			if err := a.Repo().PackingList().Delete(cmd.Context(), trip.ID, item.ID); err != nil {
				return err
			}
			out.Success("Removed %q", item.Title)
			return nil
		})
	},
}

func init() {
	packCmd.AddCommand(packAddCmd)
	packCmd.AddCommand(packListCmd)
	packCmd.AddCommand(packCheckCmd)
	packCmd.AddCommand(packEditCmd)
	packCmd.AddCommand(packRmCmd)
	rootCmd.AddCommand(packCmd)
}
