package main

import (
	"tripplan/internal/app"
	"tripplan/internal/planner"

	"github.com/spf13/cobra"
)

// todo command
var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage the itinerary",
}

var todoAddCmd = &cobra.Command{
	Use:   "add TRIP TEXT",
	Short: "Schedule a todo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		start, _ := cmd.Flags().GetString("from")
		end, _ := cmd.Flags().GetString("to")

		return withApp(cmd, "todo add", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			todo, err := a.Repo().Todos().Upsert(cmd.Context(), trip.ID, planner.TodoItem{
				Text:      args[1],
				Date:      date,
				StartTime: start,
				EndTime:   end,
			}, true)
			if err != nil {
				return err
			}
			out.Success("Scheduled %q on %s %s-%s (%s)", todo.Text, todo.Date, todo.StartTime, todo.EndTime, shortID(todo.ID))
			return nil
		})
	},
}

var todoListCmd = &cobra.Command{
	Use:   "list TRIP",
	Short: "List todos, optionally for one day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")

		return withApp(cmd, "todo list", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}

			var todos []planner.TodoItem
			if date != "" {
				todos, err = a.Repo().TodosOn(cmd.Context(), trip.ID, date)
			} else {
				todos, err = a.Repo().Todos().List(cmd.Context(), trip.ID)
			}
			if err != nil {
				return err
			}
			if len(todos) == 0 {
				out.Muted("Nothing planned.")
				return nil
			}

			rows := make([][]string, 0, len(todos))
			for _, t := range todos {
				rows = append(rows, []string{shortID(t.ID), t.Date, t.StartTime + "-" + t.EndTime, t.Text})
			}
			out.Table([]string{"ID", "DATE", "TIME", "TODO"}, rows)
			return nil
		})
	},
}

var todoRmCmd = &cobra.Command{
	Use:   "rm TRIP TODO",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "todo rm", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			todos, err := a.Repo().Todos().List(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}
			todo, err := resolveItem(todos, args[1])
			if err != nil {
				return err
			}
			if err := a.Repo().Todos().Delete(cmd.Context(), trip.ID, todo.ID); err != nil {
				return err
			}
			out.Success("Deleted %q", todo.Text)
			return nil
		})
	},
}

var todoDatesCmd = &cobra.Command{
	Use:   "dates TRIP",
	Short: "List the days that have todos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "todo dates", func(a *app.TripApp) error {
			trip, err := a.FindTrip(args[0])
			if err != nil {
				return err
			}
			dates, err := a.Repo().TodoDates(cmd.Context(), trip.ID)
			if err != nil {
				return err
			}
			if len(dates) == 0 {
				out.Muted("Nothing planned.")
				return nil
			}
			for _, d := range dates {
				out.Info("%s", d)
			}
			return nil
		})
	},
}

func init() {
	todoAddCmd.Flags().String("date", "", "Day (YYYY-MM-DD)")
	todoAddCmd.Flags().String("from", "", "Start time (HH:MM)")
	todoAddCmd.Flags().String("to", "", "End time (HH:MM)")
	_ = todoAddCmd.MarkFlagRequired("date")
	_ = todoAddCmd.MarkFlagRequired("from")
	_ = todoAddCmd.MarkFlagRequired("to")

	todoListCmd.Flags().String("date", "", "Only this day (YYYY-MM-DD), ordered by start time")

	todoCmd.AddCommand(todoAddCmd)
	todoCmd.AddCommand(todoListCmd)
	todoCmd.AddCommand(todoRmCmd)
	todoCmd.AddCommand(todoDatesCmd)
	rootCmd.AddCommand(todoCmd)
}
