package main

import (
	"tripplan/internal/app"
	"tripplan/internal/planner"

	"github.com/spf13/cobra"
)

// noteCollection resolves the --kind flag to a note collection.
func noteCollection(cmd *cobra.Command, a *app.TripApp) (*planner.Collection[planner.Note], error) {
	raw, _ := cmd.Flags().GetString("kind")
	kind, err := planner.ParseNoteKind(raw)
	if err != nil {
		return nil, err
	}
	return a.Repo().NotesOf(kind), nil
}

// note command
var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage trip notes, restaurants and sights",
}

var noteAddCmd = &cobra.Command{
	Use:   "add TRIP TITLE [CONTENT]",
	Short: "Add a note",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "note add", func(a *app.TripApp) error {
			notes, err := noteCollection(cmd, a)
			if err != nil {
				return err
			}
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}

			n := planner.Note{Title: args[1]}
			if len(args) == 3 {
				n.Content = args[2]
			}
			n, err = notes.Upsert(cmd.Context(), trip.ID, n, true)
			if err != nil {
				return err
			}
			out.Success("Added to %s of %q (%s)", notes.Name(), trip.Name, shortID(n.ID))
			return nil
		})
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list TRIP",
	Short: "List notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "note list", func(a *app.TripApp) error {
			notes, err := noteCollection(cmd, a)
			if err != nil {
				return err
			}
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			items, err := notes.List(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				out.Muted("No %s for %q.", notes.Name(), trip.Name)
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, n := range items {
				link := ""
				if n.IsLink() {
					link = "link"
				}
				rows = append(rows, []string{shortID(n.ID), n.Title, n.Content, link})
			}
			out.Table([]string{"ID", "TITLE", "CONTENT", ""}, rows)
			return nil
		})
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit TRIP NOTE",
	Short: "Change a note's title or content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		setTitle := cmd.Flags().Changed("title")
		setContent := cmd.Flags().Changed("content")
		if !setTitle && !setContent {
			return fail("Nothing to change", "", "Pass --title and/or --content.")
		}

		return withApp(cmd, "note edit", func(a *app.TripApp) error {
			notes, err := noteCollection(cmd, a)
			if err != nil {
				return err
			}
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			items, err := notes.List(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}
			n, err := resolveItem(items, args[1])
			if err != nil {
				return err
			}

			n, err = notes.Update(cmd.Context(), trip.ID, n.ID, func(n planner.Note) planner.Note {
				if setTitle {
					n.Title = title
				}
				if setContent {
					n.Content = content
				}
				return n
			})
			if err != nil {
				return err
			}
			out.Success("Updated %q", n.Title)
			return nil
		})
	},
}

var noteRmCmd = &cobra.Command{
	Use:   "rm TRIP NOTE",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "note rm", func(a *app.TripApp) error {
			notes, err := noteCollection(cmd, a)
			if err != nil {
				return err
			}
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			items, err := notes.List(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}
			n, err := resolveItem(items, args[1])
			if err != nil {
				return err
			}
			if err := notes.Delete(cmd.Context(), trip.ID, n.ID); err != nil {
				return err
			}
			out.Success("Deleted %q", n.Title)
			return nil
		})
	},
}

func init() {
	noteCmd.PersistentFlags().StringP("kind", "k", string(planner.GeneralNotes), "Note kind: notes, restaurants or sights")
	noteEditCmd.Flags().String("title", "", "New title")
	noteEditCmd.Flags().String("content", "", "New content (text or link)")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteEditCmd)
	noteCmd.AddCommand(noteRmCmd)
	rootCmd.AddCommand(noteCmd)
}
