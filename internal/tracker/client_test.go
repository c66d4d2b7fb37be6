package tracker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.Username = "me@example.com"
	cfg.Password = "hunter2"
	cfg.TimeoutMs = 2000
	return cfg
}

// fakeTracker serves the token endpoint plus the given API handlers.
func fakeTracker(t *testing.T, api map[string]http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var tokens atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokens.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "androidClient", user)
		assert.Equal(t, "secret", pass)
		if r.URL.Query().Get("password") != "hunter2" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer"}`))
	})
	for path, h := range api {
		h := h
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "bearer tok-1", r.Header.Get("Authorization"))
			h(w, r)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokens
}

func TestClient_Types(t *testing.T) {
	srv, _ := fakeTracker(t, map[string]http.HandlerFunc{
		"/api/v2/types": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"types":[
				{"guid":"g1","group":true,"name":"Rest","parent":null,"order":2,"color":-16776961,"deleted":false,"revision":3,"imageId":"img"},
				{"guid":"t1","group":false,"name":"Sleep","parent":{"guid":"g1"},"order":0,"color":255,"deleted":false,"revision":1,"imageId":""}
			]}`))
		},
	})

	cats, err := NewHTTPClient(testConfig(srv.URL), NoopObserver{}).Types(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)

	assert.True(t, cats[0].IsGroup)
	assert.Nil(t, cats[0].ParentID)
	assert.Equal(t, 2, cats[0].Order)
	assert.Equal(t, 3, cats[0].Revision)
	assert.Equal(t, "img", cats[0].ImageID)

	assert.Equal(t, "Sleep", cats[1].Name)
	require.NotNil(t, cats[1].ParentID)
	assert.Equal(t, "g1", *cats[1].ParentID)
	assert.NoError(t, cats[1].Validate())
}

func TestClient_Intervals_QueriesWindowAndNormalizes(t *testing.T) {
	srv, _ := fakeTracker(t, map[string]http.HandlerFunc{
		"/api/v2/intervals": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "100", r.URL.Query().Get("from"))
			assert.Equal(t, "200", r.URL.Query().Get("to"))
			w.Write([]byte(`{"intervals":[
				{"guid":"i1","type":{"guid":"t1"},"from":120,"to":180,"comment":"deep work","activityGuid":"a1"},
				{"guid":"i2","type":{"guid":"t1"},"from":180,"to":190,"comment":null,"activityGuid":"a2"}
			]}`))
		},
	})

	ivs, err := NewHTTPClient(testConfig(srv.URL), NoopObserver{}).Intervals(context.Background(), 100, 200)
	require.NoError(t, err)
	require.Len(t, ivs, 2)
	assert.Equal(t, int64(60), ivs[0].Delta)
	require.NotNil(t, ivs[0].Comment)
	assert.Equal(t, "deep work", *ivs[0].Comment)
	assert.Nil(t, ivs[1].Comment)
	assert.Equal(t, "t1", ivs[1].TypeID)
	assert.Equal(t, "a2", ivs[1].ActivityID)
}

func TestClient_AllIntervals_AscendingWithLimit(t *testing.T) {
	srv, tokens := fakeTracker(t, map[string]http.HandlerFunc{
		"/api/v2/intervals": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "asc", r.URL.Query().Get("order"))
			assert.Equal(t, "100000", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"intervals":[]}`))
		},
	})

	client := NewHTTPClient(testConfig(srv.URL), NoopObserver{})
	ivs, err := client.AllIntervals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ivs)

	_, err = client.AllIntervals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), tokens.Load(), "token is reused")
}

func TestClient_BadCredentials(t *testing.T) {
	srv, _ := fakeTracker(t, nil)
	cfg := testConfig(srv.URL)
	cfg.Password = "wrong"

	_, err := NewHTTPClient(cfg, NoopObserver{}).Types(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_ExpiredToken(t *testing.T) {
	srv, _ := fakeTracker(t, map[string]http.HandlerFunc{
		"/api/v2/types": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	})

	_, err := NewHTTPClient(testConfig(srv.URL), NoopObserver{}).Types(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_ServerError(t *testing.T) {
	var calls atomic.Int32
	srv, _ := fakeTracker(t, map[string]http.HandlerFunc{
		"/api/v2/intervals": func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		},
	})

	_, err := NewHTTPClient(testConfig(srv.URL), NoopObserver{}).AllIntervals(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), calls.Load(), "failed calls are not retried")
}

func TestClient_Unreachable(t *testing.T) {
	_, err := NewHTTPClient(testConfig("http://127.0.0.1:1"), NoopObserver{}).Types(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_MalformedBody(t *testing.T) {
	srv, _ := fakeTracker(t, map[string]http.HandlerFunc{
		"/api/v2/types": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		},
		"/api/v2/intervals": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items":[]}`))
		},
	})
	client := NewHTTPClient(testConfig(srv.URL), NoopObserver{})

	_, err := client.Types(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = client.AllIntervals(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

type captureObserver struct {
	events []CallEvent
}

func (c *captureObserver) OnCallComplete(e CallEvent) { c.events = append(c.events, e) }

func TestClient_ObserverCalled(t *testing.T) {
	srv, _ := fakeTracker(t, map[string]http.HandlerFunc{
		"/api/v2/intervals": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"intervals":[{"guid":"i1","type":{"guid":"t1"},"from":1,"to":2}]}`))
		},
	})
	obs := &captureObserver{}

	_, err := NewHTTPClient(testConfig(srv.URL), obs).AllIntervals(context.Background())
	require.NoError(t, err)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "/oauth/token", obs.events[0].Path)
	assert.Equal(t, "/api/v2/intervals", obs.events[1].Path)
	assert.True(t, obs.events[1].Success)
	assert.Equal(t, 1, obs.events[1].Records)
}
