package display

import "courier-tracking-service/internal/domain"

// ViewState is the coarse state of a tracking view.
type ViewState string

const (
	StateNoData   ViewState = "no_data"
	StateLoading  ViewState = "loading"
	StateHasRoute ViewState = "has_route"
	StateNoRoute  ViewState = "no_route"
)

type Turn struct {
	Instruction string             `json:"instruction"`
	StreetName  string             `json:"street_name,omitempty"`
	Distance    string             `json:"distance"`
	Duration    string             `json:"duration"`
	Location    domain.Coordinates `json:"location"`
}

// Status is everything the status panel needs, already formatted.
type Status struct {
	State          ViewState     `json:"state"`
	ETA            string        `json:"eta,omitempty"`
	Distance       string        `json:"distance,omitempty"`
	Traffic        *TrafficBadge `json:"traffic,omitempty"`
	Turns          []Turn        `json:"turns,omitempty"`
	TurnsCollapsed bool          `json:"turns_collapsed"`
	Message        string        `json:"message,omitempty"`
}

const NoCoordinatesMessage = "لا تتوفر إحداثيات"

// BuildStatus derives the status panel. A nil route yields no numbers; the
// turn list starts collapsed.
func BuildStatus(state ViewState, route *domain.RouteResult) Status {
	st := Status{State: state, TurnsCollapsed: true}

	if state == StateNoData {
		st.Message = NoCoordinatesMessage
		return st
	}
	if route == nil {
		return st
	}

	st.ETA = FormatDuration(route.DurationMinutes * 60)
	st.Distance = FormatDistance(route.DistanceKM * 1000)

	if b, ok := Badge(route.TrafficLevel); ok {
		st.Traffic = &b
	}

	for _, d := range route.TurnPoints() {
		st.Turns = append(st.Turns, Turn{
			Instruction: d.Instruction,
			StreetName:  d.StreetName,
			Distance:    FormatDistance(d.DistanceMeters),
			Duration:    FormatDuration(d.DurationSeconds),
			Location:    d.Location,
		})
	}

	return st
}
