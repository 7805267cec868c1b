package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mchmarny/gradebook/pkg/grade"
	"github.com/mchmarny/gradebook/pkg/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()
	r, err := roster.New(grade.DefaultWeights())
	require.NoError(t, err)

	for _, s := range []roster.Student{
		{ID: "1", Name: "Bill", Scores: grade.Scores{90, 85, 95, 88, 92}},
		{ID: "2", Name: "Ann", Scores: grade.Scores{60, 70, 65, 55, 58}},
	} {
		_, err := r.Add(s)
		require.NoError(t, err)
	}

	s, err := New(r, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, s
}

// locked gives the test the same exclusive access the handlers hold.
func locked(s *Server, fn func(r *roster.Roster)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.roster)
}

func doRequest(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, rd)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func TestNew_NilRoster(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestListAndGetStudent(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, body := doRequest(t, http.MethodGet, ts.URL+"/students", "")
	require.Equal(t, http.StatusOK, status)
	var list []roster.Record
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 2)

	status, body = doRequest(t, http.MethodGet, ts.URL+"/students/1", "")
	require.Equal(t, http.StatusOK, status)
	var rec roster.Record
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, "Bill", rec.Name)
	assert.Equal(t, grade.APlus, rec.Grade)

	status, _ = doRequest(t, http.MethodGet, ts.URL+"/students/9", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetRank(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, body := doRequest(t, http.MethodGet, ts.URL+"/students/2/rank", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":"2","rank":2}`, string(body))
}

func TestAddStudent(t *testing.T) {
	ts, srv := setupTestServer(t)

	status, _ := doRequest(t, http.MethodPost, ts.URL+"/students",
		`{"id":"3","name":"Joe","scores":[99,95,95,98,92]}`)
	assert.Equal(t, http.StatusCreated, status)

	status, _ = doRequest(t, http.MethodPost, ts.URL+"/students",
		`{"id":"3","name":"Joe","scores":[99,95,95,98,92]}`)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doRequest(t, http.MethodPost, ts.URL+"/students",
		`{"id":"4","name":"Kim","scores":[99,95,95,98]}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, http.MethodPost, ts.URL+"/students", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)

	locked(srv, func(r *roster.Roster) {
		assert.Equal(t, 3, r.Len())
	})
}

func TestUpdateScores(t *testing.T) {
	ts, srv := setupTestServer(t)

	status, _ := doRequest(t, http.MethodPatch, ts.URL+"/students/2/scores", `{"midterm": 100, "final": 100}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, http.MethodPatch, ts.URL+"/students/2/scores", `{"lab1": 1, "lab": 95}`)
	assert.Equal(t, http.StatusBadRequest, status)

	locked(srv, func(r *roster.Roster) {
		s, err := r.Scores("2")
		require.NoError(t, err)
		assert.Equal(t, grade.Scores{60, 70, 65, 100, 100}, s)
	})

	status, _ = doRequest(t, http.MethodPatch, ts.URL+"/students/9/scores", `{"lab1": 1}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWeights(t *testing.T) {
	ts, srv := setupTestServer(t)

	status, body := doRequest(t, http.MethodGet, ts.URL+"/weights", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"final":0.4`)

	status, _ = doRequest(t, http.MethodPut, ts.URL+"/weights", `{"final": 0.9}`)
	assert.Equal(t, http.StatusBadRequest, status)
	locked(srv, func(r *roster.Roster) {
		assert.Equal(t, grade.DefaultWeights(), r.Weights())
	})

	status, _ = doRequest(t, http.MethodPut, ts.URL+"/weights", `{"midterm": 0.2, "final": 0.5}`)
	require.Equal(t, http.StatusOK, status)
	locked(srv, func(r *roster.Roster) {
		assert.Equal(t, grade.Weights{0.1, 0.1, 0.1, 0.2, 0.5}, r.Weights())
	})
}

func TestDistributionAndFilter(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, body := doRequest(t, http.MethodGet, ts.URL+"/distribution", "")
	require.Equal(t, http.StatusOK, status)
	var buckets []grade.Bucket
	require.NoError(t, json.Unmarshal(body, &buckets))
	require.Len(t, buckets, grade.LetterCount)
	assert.Equal(t, 1, buckets[grade.APlus].Count)
	assert.Equal(t, 1, buckets[grade.D].Count)

	status, body = doRequest(t, http.MethodGet, ts.URL+"/filter?threshold=60", "")
	require.Equal(t, http.StatusOK, status)
	var list []roster.Ranked
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, 1, list[0].Rank)

	status, _ = doRequest(t, http.MethodGet, ts.URL+"/filter?threshold=abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestConcurrentUpdatesKeepInvariant(t *testing.T) {
	ts, srv := setupTestServer(t)

	send := func(method, url, body string) {
		req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
		if err != nil {
			return
		}
		if resp, err := http.DefaultClient.Do(req); err == nil {
			resp.Body.Close()
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := `{"final": 0.4}`
			if i%2 == 0 {
				body = `{"final": 0.2}`
			}
			send(http.MethodPut, ts.URL+"/weights", body)
			send(http.MethodPatch, ts.URL+"/students/1/scores", `{"lab1": 50}`)
		}(i)
	}
	wg.Wait()

	locked(srv, func(r *roster.Roster) {
		assert.Equal(t, r.Len(), r.Distribution().Total())
		s, err := r.Scores("1")
		require.NoError(t, err)
		assert.Equal(t, 50.0, s[grade.Lab1])
	})
}
