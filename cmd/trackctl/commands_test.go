package main

import (
	"bytes"
	"testing"
	"time"

	"courier-tracking-service/internal/display"
	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/services/sampler"
	"courier-tracking-service/internal/services/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"link", "https://www.google.com/maps/place/26.4207,50.0888"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "lat=26.4207 lng=50.0888")
	assert.Contains(t, out.String(), "https://www.google.com/maps/dir/?api=1&destination=26.4207,50.0888")
}

func TestLinkCommandUnparseable(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"link", "https://example.com/nothing"})

	assert.ErrorIs(t, cmd.Execute(), sampler.ErrLinkUnparseable)
}

func TestPrintSnapshot(t *testing.T) {
	route := &domain.RouteResult{
		DistanceKM:      2.5,
		DurationMinutes: 7.5,
		TrafficLevel:    domain.TrafficHeavy,
		Directions: []domain.DirectionInstruction{
			{Instruction: "انطلق"},
			{Instruction: "انعطف يمينًا", StreetName: "طريق الملك فهد", DistanceMeters: 400, DurationSeconds: 45},
			{Instruction: "وصلت"},
		},
	}
	snap := tracking.Snapshot{
		Status:      display.BuildStatus(display.StateHasRoute, route),
		Courier:     &domain.CourierLocation{Coordinates: domain.Coordinates{Lat: 24.7, Lng: 46.6}},
		RefreshedAt: time.Date(2026, 1, 1, 12, 30, 0, 0, time.UTC),
	}

	var out bytes.Buffer
	printSnapshot(&out, snap)

	s := out.String()
	assert.Contains(t, s, "[12:30:00] has_route")
	assert.Contains(t, s, "eta=7 د distance=2.5 كم")
	assert.Contains(t, s, "traffic=حركة كثيفة")
	assert.Contains(t, s, "1. انعطف يمينًا (طريق الملك فهد)  400 م / 45 ث")
}
