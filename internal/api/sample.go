package api

// Sample catalog served when the backend is unreachable, so listing
// commands degrade instead of dying. Mirrors the seeded demo data.

// SampleEvent returns the canned demo event.
func SampleEvent() Event {
	return Event{
		ID:       1,
		Title:    "IU Live in Seoul",
		Category: CategoryConcert,
		StartAt:  "2026-05-01T19:00:00",
		EndAt:    "2026-05-01T22:00:00",
		Venue:    "Jamsil Main Stadium",
	}
}

// SampleEvents returns the canned demo catalog as a single page.
func SampleEvents() *EventPage {
	events := []Event{SampleEvent()}
	return &EventPage{
		Content:          events,
		TotalPages:       1,
		TotalElements:    len(events),
		Number:           0,
		Size:             len(events),
		NumberOfElements: len(events),
		First:            true,
		Last:             true,
	}
}

// SampleSeats returns the canned seat map for the demo event.
func SampleSeats() []Seat {
	ev := SampleEvent()
	return []Seat{
		{ID: 1, Event: ev, SeatNumber: "A1", Price: 150000, Status: SeatBooked},
		{ID: 2, Event: ev, SeatNumber: "A2", Price: 150000, Status: SeatAvailable},
		{ID: 3, Event: ev, SeatNumber: "A3", Price: 150000, Status: SeatAvailable},
		{ID: 4, Event: ev, SeatNumber: "B1", Price: 120000, Status: SeatBooked},
		{ID: 5, Event: ev, SeatNumber: "B2", Price: 120000, Status: SeatAvailable},
		{ID: 6, Event: ev, SeatNumber: "B3", Price: 120000, Status: SeatAvailable},
		{ID: 7, Event: ev, SeatNumber: "C1", Price: 90000, Status: SeatAvailable},
		{ID: 8, Event: ev, SeatNumber: "C2", Price: 90000, Status: SeatBooked},
	}
}
