package api

// Category classifies an event.
type Category string

const (
	CategoryConcert Category = "CONCERT"
	CategorySports  Category = "SPORTS"
)

// SeatStatus is the sale state of a single seat.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatBooked    SeatStatus = "BOOKED"
	SeatSold      SeatStatus = "SOLD"
)

// Phase is the authoritative state of a queue token as reported by the server:
// WAITING (still in line) or ALLOWED (admission granted).
type Phase string

const (
	PhaseWaiting Phase = "WAITING"
	PhaseAllowed Phase = "ALLOWED"
)

// Event is a bookable event as returned by /api/v1/events.
type Event struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	StartAt  string   `json:"startAt"`
	EndAt    string   `json:"endAt"`
	Venue    string   `json:"venue"`
}

// EventPage is one page of the paged event listing.
type EventPage struct {
	Content          []Event `json:"content"`
	TotalPages       int     `json:"totalPages"`
	TotalElements    int     `json:"totalElements"`
	Number           int     `json:"number"`
	Size             int     `json:"size"`
	NumberOfElements int     `json:"numberOfElements"`
	First            bool    `json:"first"`
	Last             bool    `json:"last"`
	Empty            bool    `json:"empty"`
}

// Seat is a single seat in an event's inventory.
type Seat struct {
	ID         int64      `json:"id"`
	Event      Event      `json:"event"`
	SeatNumber string     `json:"seatNumber"`
	Price      int64      `json:"price"`
	Status     SeatStatus `json:"status"`
}

// QueueStatus is the admission state returned by every enter/check call.
// Position is meaningful only while Phase is WAITING; RemainingSeconds
// (grant validity) only once Phase is ALLOWED. The server may rotate the
// token value on any successful check.
type QueueStatus struct {
	Token            string `json:"token"`
	Phase            Phase  `json:"phase"`
	Position         int    `json:"position"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

// LoginRequest is the payload for /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued on successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// BookingResponse identifies a created booking.
type BookingResponse struct {
	ID int64 `json:"id"`
}

// EventListQuery holds the optional filters for the event listing.
// Zero values fall back to the server defaults (page 0, size 10, "id,desc").
type EventListQuery struct {
	Page     int
	Size     int
	Sort     string
	Title    string
	Category Category
	Venue    string
}
