package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/session"
	"github.com/openticket/otq/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printEventTable(ev *api.Event) {
	fmt.Printf("ID:        %d\n", ev.ID)
	fmt.Printf("Title:     %s\n", ev.Title)
	fmt.Printf("Category:  %s\n", ev.Category)
	fmt.Printf("Venue:     %s\n", ev.Venue)
	fmt.Printf("Starts:    %s\n", ev.StartAt)
	fmt.Printf("Ends:      %s\n", ev.EndAt)
}

func printEventListTable(page *api.EventPage) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tTITLE\tVENUE\tSTARTS")
	for _, ev := range page.Content {
		title := ev.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", ev.ID, ev.Category, title, ev.Venue, ev.StartAt)
	}
	w.Flush()
	fmt.Printf("\n%d events (%d total, page %d of %d)\n",
		page.NumberOfElements, page.TotalElements, page.Number+1, page.TotalPages)
}

func printSeatsTable(seats []api.Seat) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEAT\tPRICE\tSTATUS")
	for _, s := range seats {
		status := string(s.Status)
		if s.Status != api.SeatAvailable {
			status = ui.RenderMuted(status)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.ID, s.SeatNumber, formatPrice(s.Price), status)
	}
	w.Flush()
	fmt.Printf("\n%d seats\n", len(seats))
}

// formatPrice renders a won amount with thousands separators, e.g. 150000
// becomes "150,000".
func formatPrice(price int64) string {
	s := strconv.FormatInt(price, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func printQueueStatus(status *api.QueueStatus) {
	if jsonOutput {
		printJSON(status)
		return
	}
	switch status.Phase {
	case api.PhaseAllowed:
		fmt.Printf("%s admission granted", ui.RenderSuccess("ALLOWED"))
		if status.RemainingSeconds > 0 {
			fmt.Printf(" (valid for %ds)", status.RemainingSeconds)
		}
		fmt.Println()
	default:
		fmt.Printf("WAITING position %d\n", status.Position)
	}
}

// printSessionNotices is subscribed to the session monitor and surfaces
// prompts and banners on stderr as they are raised.
func printSessionNotices() {
	if p := monitor.Active(); p != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(ui.SessionExpiredMessage))
		if p.FromPath != "" {
			fmt.Fprintf(os.Stderr, "after logging in, retry: %s\n", p.FromPath)
		}
	}
	if b := monitor.ActiveBanner(); b != nil {
		switch b.Tone {
		case session.ToneError:
			fmt.Fprintln(os.Stderr, ui.RenderError(b.Message))
		case session.ToneSuccess:
			fmt.Fprintln(os.Stderr, ui.RenderSuccess(b.Message))
		default:
			fmt.Fprintln(os.Stderr, b.Message)
		}
	}
}
