//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fitnesstracker/internal/fitness"
	"github.com/2beens/fitnesstracker/internal/tracker"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devUserID = "dev-testuser"

func (s *IntegrationTestSuite) SetupTest() {
	_, err := s.DB.Exec(`DELETE FROM fitness_record`)
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) authRequest(ctx context.Context, method, path, token string, body []byte) *http.Response {
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bytes.NewReader(body))
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	return resp
}

func (s *IntegrationTestSuite) getDailyAggregate(ctx context.Context, token string, date time.Time) fitness.DailyAggregate {
	resp := s.authRequest(ctx, "GET", "/api/fitness/track?date="+date.Format("2006-01-02"), token, nil)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var agg fitness.DailyAggregate
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&agg))
	return agg
}

func (s *IntegrationTestSuite) TestTrackAndAggregate() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doDevLogin(ctx, t, s.httpClient)
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, req := range []fitness.TrackRequest{
		{Steps: 120, Distance: 84, Calories: 4.8, ActivityType: "walking", Timestamp: day.Add(8 * time.Hour)},
		{Steps: 200, Distance: 500, Calories: 14, ActivityType: "running", Timestamp: day.Add(18 * time.Hour)},
		{Steps: 50, Distance: 35, Calories: 2, ActivityType: "walking", Timestamp: day.Add(24 * time.Hour)},
	} {
		body, err := json.Marshal(req)
		require.NoError(t, err)
		resp := s.authRequest(ctx, "POST", "/api/fitness/track", token, body)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	agg := s.getDailyAggregate(ctx, token, day)
	assert.Equal(t, 320, agg.Steps)
	assert.InDelta(t, 584.0, agg.Distance, 1e-9)
	assert.InDelta(t, 18.8, agg.Calories, 1e-9)
	assert.Equal(t, map[string]int{"walking": 1, "running": 1}, agg.Activities)

	resp := s.authRequest(ctx, "GET", "/api/fitness/progress?timeframe=weekly&date=2024-03-11", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary fitness.RangeSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 370, summary.Aggregate.Steps)
	assert.Equal(t, fitness.TimeframeWeekly, summary.Timeframe)

	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT count(*) FROM fitness_record WHERE user_id = $1`, devUserID).Scan(&count))
	assert.Equal(t, 3, count)

	// invalid activity type is not stored
	resp = s.authRequest(ctx, "POST", "/api/fitness/track", token, []byte(`{"steps":1,"activityType":"swimming"}`))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.authRequest(ctx, "POST", "/api/fitness/track", "", []byte(`{"steps":1,"activityType":"walking"}`))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestHTTPFlusher() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doDevLogin(ctx, t, s.httpClient)
	flusher := tracker.NewHTTPFlusher(serverEndpoint, token, s.httpClient)
	tr := tracker.NewTracker(devUserID, flusher, tracker.WithFlushInterval(time.Hour))

	now := time.Now().UTC()
	tr.Start(now)
	for i, sample := range []tracker.Sample{{Z: 9.8}, {X: 8, Z: 20}, {Z: 9.8}, {X: 8, Z: 20}} {
		tr.HandleSample(sample, now.Add(time.Duration(i)*100*time.Millisecond))
	}
	final := tr.Stop(now.Add(time.Second))
	tr.Wait()
	require.Equal(t, 3, final.Steps)

	var (
		steps    int
		activity string
	)
	require.NoError(t, s.DB.QueryRow(
		`SELECT steps, activity_type FROM fitness_record WHERE user_id = $1`, devUserID,
	).Scan(&steps, &activity))
	assert.Equal(t, 3, steps)
	assert.Equal(t, "walking", activity)
}

func (s *IntegrationTestSuite) TestStream() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doDevLogin(ctx, t, s.httpClient)
	wsURL := "ws" + strings.TrimPrefix(serverEndpoint, "http") + "/api/fitness/stream"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("User-Agent", "test-agent")

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	send := func(msg map[string]any) map[string]any {
		require.NoError(t, conn.WriteJSON(msg))
		var reply map[string]any
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		require.NoError(t, conn.ReadJSON(&reply))
		return reply
	}

	reply := send(map[string]any{"type": "start", "permission": "granted"})
	require.Equal(t, "state", reply["type"])
	for _, sample := range [][3]float64{{0, 0, 9.8}, {12, 0, 22}, {0, 0, 9.8}} {
		reply = send(map[string]any{"type": "sample", "x": sample[0], "y": sample[1], "z": sample[2]})
		require.Equal(t, "state", reply["type"], fmt.Sprint(reply))
	}
	assert.Equal(t, true, reply["step"])

	require.NoError(t, conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	))
	require.NoError(t, conn.Close())

	// the final flush happens once the server notices the disconnect
	require.Eventually(t, func() bool {
		var steps int
		err := s.DB.QueryRow(
			`SELECT steps FROM fitness_record WHERE user_id = $1 AND activity_type = 'running'`, devUserID,
		).Scan(&steps)
		return err == nil && steps == 2
	}, 5*time.Second, 100*time.Millisecond)
}

func (s *IntegrationTestSuite) TestLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doDevLogin(ctx, t, s.httpClient)

	resp := s.authRequest(ctx, "GET", "/api/auth/session", token, nil)
	var session struct {
		IsUserAuthenticated bool `json:"isUserAuthenticated"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	require.NoError(t, resp.Body.Close())
	assert.True(t, session.IsUserAuthenticated)

	resp = s.authRequest(ctx, "POST", "/api/auth/logout", token, nil)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.authRequest(ctx, "GET", "/api/fitness/track", token, nil)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
