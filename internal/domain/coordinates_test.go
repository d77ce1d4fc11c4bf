package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinatesValid(t *testing.T) {
	cases := []struct {
		name string
		c    Coordinates
		want bool
	}{
		{"origin", Coordinates{0, 0}, true},
		{"riyadh", Coordinates{24.7136, 46.6753}, true},
		{"corners low", Coordinates{-90, -180}, true},
		{"corners high", Coordinates{90, 180}, true},
		{"lat too high", Coordinates{90.0001, 0}, false},
		{"lat too low", Coordinates{-91, 0}, false},
		{"lng too high", Coordinates{0, 180.5}, false},
		{"lng too low", Coordinates{0, -200}, false},
		{"nan lat", Coordinates{math.NaN(), 10}, false},
		{"nan lng", Coordinates{10, math.NaN()}, false},
		{"inf", Coordinates{math.Inf(1), 10}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.c.Valid())
		})
	}
}

func TestCoordinatesValidRangeSweep(t *testing.T) {
	for lat := -90.0; lat <= 90.0; lat += 7.5 {
		for lng := -180.0; lng <= 180.0; lng += 15 {
			if !(Coordinates{Lat: lat, Lng: lng}).Valid() {
				t.Fatalf("expected (%v,%v) to be valid", lat, lng)
			}
		}
	}
}

func TestFilterValidKeepsOrder(t *testing.T) {
	in := []Coordinates{{1, 1}, {100, 1}, {2, 2}, {math.NaN(), 0}, {3, 3}}
	out := FilterValid(in)
	assert.Equal(t, []Coordinates{{1, 1}, {2, 2}, {3, 3}}, out)
	assert.False(t, ValidPtr(nil))
}

func TestOrderTrackable(t *testing.T) {
	o := &Order{ID: "o1", CourierID: "c1", Status: OrderStatusOnTheWay}
	assert.True(t, o.Trackable())

	o.Status = OrderStatusDelivered
	assert.False(t, o.Trackable())

	o = &Order{ID: "o2", Status: OrderStatusPickedUp}
	assert.False(t, o.Trackable(), "no courier assigned")

	var nilOrder *Order
	assert.False(t, nilOrder.Trackable())
}

func TestRouteTurnPointsExcludeEndpoints(t *testing.T) {
	r := &RouteResult{Directions: []DirectionInstruction{
		{Instruction: "depart"},
		{Instruction: "turn left"},
		{Instruction: "turn right"},
		{Instruction: "arrive"},
	}}
	turns := r.TurnPoints()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	assert.Equal(t, "turn left", turns[0].Instruction)
	assert.Equal(t, "turn right", turns[1].Instruction)

	short := &RouteResult{Directions: []DirectionInstruction{{Instruction: "depart"}, {Instruction: "arrive"}}}
	assert.Empty(t, short.TurnPoints())
}

func TestParseTrafficLevel(t *testing.T) {
	assert.Equal(t, TrafficHeavy, ParseTrafficLevel("heavy"))
	assert.Equal(t, TrafficUnknown, ParseTrafficLevel("gridlock"))
	assert.Equal(t, TrafficUnknown, ParseTrafficLevel(""))
}
