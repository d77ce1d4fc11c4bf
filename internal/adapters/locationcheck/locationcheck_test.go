package locationcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"courier-tracking-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSharedRepo struct{ mock.Mock }

func (m *mockSharedRepo) SaveSharedLocation(ctx context.Context, loc domain.SharedLocation) error {
	return m.Called(ctx, loc).Error(0)
}

func (m *mockSharedRepo) LatestSharedLocation(ctx context.Context, phone string) (*domain.SharedLocation, error) {
	args := m.Called(ctx, phone)
	loc, _ := args.Get(0).(*domain.SharedLocation)
	return loc, args.Error(1)
}

func TestStoreChecker(t *testing.T) {
	repo := &mockSharedRepo{}
	repo.On("LatestSharedLocation", mock.Anything, "0500000001").Return(&domain.SharedLocation{
		Coordinates: domain.Coordinates{Lat: 24.7, Lng: 46.6},
		Address:     "الرياض",
	}, nil)
	repo.On("LatestSharedLocation", mock.Anything, "0500000002").Return(nil, nil)
	repo.On("LatestSharedLocation", mock.Anything, "0500000003").Return(nil, errors.New("db down"))

	c := NewStoreChecker(repo)
	ctx := context.Background()

	got, err := c.Check(ctx, " 0500000001 ")
	require.NoError(t, err)
	assert.True(t, got.HasLocation)
	assert.Equal(t, 24.7, got.Location.Lat)
	assert.Equal(t, "الرياض", got.Location.Address)

	got, err = c.Check(ctx, "0500000002")
	require.NoError(t, err)
	assert.False(t, got.HasLocation)
	assert.Nil(t, got.Location)

	_, err = c.Check(ctx, "0500000003")
	assert.Error(t, err)

	_, err = c.Check(ctx, "")
	assert.Error(t, err)

	repo.AssertExpectations(t)
}

func TestHTTPChecker(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr error
		anyErr  bool
	}{
		{name: "has location", status: 200, body: `{"has_location": true, "location": {"lat": 24.7, "lng": 46.6, "address": "x", "url": "u"}}`, want: true},
		{name: "no location", status: 200, body: `{"has_location": false}`},
		{name: "missing flag", status: 200, body: `{}`, wantErr: ErrInvalidResponse},
		{name: "flag without location", status: 200, body: `{"has_location": true}`, wantErr: ErrInvalidResponse},
		{name: "out of range", status: 200, body: `{"has_location": true, "location": {"lat": 124.7, "lng": 46.6}}`, wantErr: ErrInvalidResponse},
		{name: "server error", status: 500, body: `boom`, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "0500000001", r.URL.Query().Get("phone"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewHTTPChecker(srv.URL+"/check", zap.NewNop()).Check(context.Background(), "0500000001")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.HasLocation)
				assert.Equal(t, tt.want, got.Location != nil)
			}
		})
	}
}
