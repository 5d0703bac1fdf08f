// Package model defines the core data types of the bot.
package model

import "time"

// Flight is one row of the flight table. DepartureTime and ArrivalTime are
// naive local date-times ("2025-03-15T09:00:00"); the timezone columns carry
// the IANA zone each one is local to.
type Flight struct {
	Airline           string `json:"airline"`
	Number            string `json:"flight_number"`
	DepartureCity     string `json:"departure_city"`
	ArrivalCity       string `json:"arrival_city"`
	DepartureTime     string `json:"departure_time"`
	ArrivalTime       string `json:"arrival_time,omitempty"`
	DepartureTimezone string `json:"departure_timezone,omitempty"`
	ArrivalTimezone   string `json:"arrival_timezone,omitempty"`
	Confirmation      string `json:"confirmation,omitempty"`
}

// ParsedQuery is the parsed form of one incoming message.
type ParsedQuery struct {
	Verb       string   `json:"verb,omitempty"`
	Entities   []string `json:"entities,omitempty"`
	Normalized string   `json:"normalized"`
}

// IntentType is the classified purpose of a message.
type IntentType string

const (
	IntentTermLookup IntentType = "term_lookup"
	IntentSchedule   IntentType = "schedule"
	IntentProduction IntentType = "production"
	IntentTravel     IntentType = "travel"
	IntentMerch      IntentType = "merch"
	IntentFinancial  IntentType = "financial"
	IntentMedia      IntentType = "media"
	IntentHelp       IntentType = "help"
	IntentNone       IntentType = ""
)

// Intent is the result of classifying one message.
type Intent struct {
	Type       IntentType        `json:"intent_type"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities,omitempty"`
}

// ResultKind tags the retrieval outcome variants.
type ResultKind int

const (
	ResultNone ResultKind = iota
	ResultContextualTerm
	ResultContextualLocation
	ResultGenericTerm
	ResultTravelSchedule
)

// RetrievalResult is a tagged union over the retrieval shapes. Only the
// fields of the active variant are populated.
type RetrievalResult struct {
	Kind ResultKind

	// contextual term / location
	Term  string
	City  string
	Field string
	Value string
	Place string

	// generic definition
	Definition string

	// travel schedule, already rendered
	Text string
}

// ResponseType is the outward shape of a generated response.
type ResponseType string

const (
	ResponseAnswer   ResponseType = "answer"
	ResponseSchedule ResponseType = "schedule"
	ResponseHelp     ResponseType = "help"
	ResponseFallback ResponseType = "fallback"
	ResponseUnknown  ResponseType = "unknown"
	ResponseError    ResponseType = "error"
)

// Member identifies who is asking, used for locale selection.
type Member struct {
	Name   string `json:"name,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// Request is one incoming message plus its surrounding context.
type Request struct {
	Message string            `json:"message"`
	Context map[string]string `json:"context,omitempty"`
	Member  Member            `json:"member,omitempty"`
}

// Response is the generated reply for one request.
type Response struct {
	ID         string       `json:"id"`
	Type       ResponseType `json:"type"`
	Text       string       `json:"text"`
	Intent     IntentType   `json:"intent,omitempty"`
	Confidence float64      `json:"confidence,omitempty"`
}

// Answer is one stored answer template. Versions of the same
// (term_id, locale) pair form a chain through Supersedes; the current
// answer is the highest non-superseded, non-deleted version.
type Answer struct {
	ID         string     `json:"id"`
	TermID     string     `json:"term_id"`
	Locale     string     `json:"locale"`
	Template   string     `json:"template"`
	Version    int        `json:"version"`
	Supersedes string     `json:"supersedes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}
