package mcsi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriguard/agriguard-go/internal/upstream"
)

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stress/19001", r.URL.Path)
		w.Write([]byte(`{
			"fips": "19001",
			"county_name": "Adair",
			"overall_stress_index": 45.2,
			"water_stress_index": 50,
			"primary_driver": "water",
			"indicators": {"water_deficit_mean": 3.1}
		}`))
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL}, zerolog.Nop())

	snap, err := c.Current(context.Background(), "19001")
	require.NoError(t, err)
	assert.Equal(t, "Adair", snap.CountyName)
	assert.Equal(t, 45.2, snap.OverallStressIndex)
	assert.Equal(t, 3.1, snap.Indicators["water_deficit_mean"])
}

func TestTimeseries_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stress/19001/timeseries", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			{"week_of_season": 24, "csi_overall": 30.1, "indicators": {"ndvi_mean": 0.6}},
			{"week_of_season": 25, "csi_overall": 33.4, "indicators": {"ndvi_mean": 0.58}}
		]`))
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL}, zerolog.Nop())

	entries, err := c.Timeseries(context.Background(), "19001", TimeseriesQuery{Limit: 30})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 25, entries[1].WeekOfSeason)
	assert.Equal(t, 33.4, entries[1].CSIOverall)
}

func TestTimeseries_SingleEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"week_of_season": 20, "csi_overall": 12.5, "indicators": {}}`))
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL}, zerolog.Nop())

	entries, err := c.Timeseries(context.Background(), "19001", TimeseriesQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 20, entries[0].WeekOfSeason)
}

func TestTimeseries_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"just a string"`))
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL}, zerolog.Nop())

	_, err := c.Timeseries(context.Background(), "19001", TimeseriesQuery{})
	require.Error(t, err)

	ue, ok := upstream.Classify(err)
	require.True(t, ok)
	assert.Equal(t, upstream.KindMalformed, ue.Kind)
}

func TestTimeseriesQuery_Encode(t *testing.T) {
	assert.Equal(t, "", TimeseriesQuery{}.encode())
	assert.Equal(t, "?limit=10", TimeseriesQuery{Limit: 10}.encode())

	q := TimeseriesQuery{Limit: 5, StartDate: "2025-06-01", EndDate: "2025-08-01"}
	assert.Equal(t, "?end_date=2025-08-01&limit=5&start_date=2025-06-01", q.encode())
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL}, zerolog.Nop())
	assert.NoError(t, c.Health(context.Background()))
}
