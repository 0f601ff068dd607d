package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/session"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse the event catalog",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		sort, _ := cmd.Flags().GetString("sort")
		title, _ := cmd.Flags().GetString("title")
		category, _ := cmd.Flags().GetString("category")
		venue, _ := cmd.Flags().GetString("venue")

		result, err := client.ListEvents(cmd.Context(), api.EventListQuery{
			Page:     page,
			Size:     size,
			Sort:     sort,
			Title:    title,
			Category: api.Category(category),
			Venue:    venue,
		})
		if err != nil {
			// The catalog stays browsable offline with canned demo data.
			if !api.IsNetwork(err) {
				return err
			}
			monitor.ShowBanner(session.Banner{
				Tone:    session.ToneInfo,
				Message: "server unreachable, showing demo catalog",
			})
			result = api.SampleEvents()
		}

		if jsonOutput {
			printJSON(result)
		} else {
			printEventListTable(result)
		}
		return nil
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show details of an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args[0])
		if err != nil {
			return err
		}

		ev, err := client.GetEvent(cmd.Context(), eventID)
		if err != nil {
			if !api.IsNetwork(err) {
				return err
			}
			monitor.ShowBanner(session.Banner{
				Tone:    session.ToneInfo,
				Message: "server unreachable, showing demo event",
			})
			demo := api.SampleEvent()
			ev = &demo
		}

		if jsonOutput {
			printJSON(ev)
		} else {
			printEventTable(ev)
		}
		return nil
	},
}

func parseEventID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid event id %q", arg)
	}
	return id, nil
}

func init() {
	eventsListCmd.Flags().Int("page", 0, "page number (0-based)")
	eventsListCmd.Flags().Int("size", 10, "page size")
	eventsListCmd.Flags().String("sort", "", "sort order, e.g. id,desc")
	eventsListCmd.Flags().String("title", "", "filter by title substring")
	eventsListCmd.Flags().String("category", "", "filter by category (CONCERT, SPORTS)")
	eventsListCmd.Flags().String("venue", "", "filter by venue substring")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsShowCmd)
}
