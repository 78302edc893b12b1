package hubhttp_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entityhub/pkg/broadcast"
	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/hubhttp"
	"github.com/dmitrymomot/entityhub/pkg/notify"
)

var tenant = notify.GroupTransformerFunc(func(_ context.Context, g group.Group) (group.Group, error) {
	return g.Prepend("tenant", "acme"), nil
})

func newRouter(t *testing.T, opts ...hubhttp.Option) (*broadcast.Hub, http.Handler) {
	t.Helper()
	hub := broadcast.NewHub()
	t.Cleanup(func() { _ = hub.Close() })
	return hub, hubhttp.NewHandler(hub, opts...).Routes()
}

func membershipRequest(method, id, body, contentType string) *http.Request {
	req := httptest.NewRequest(method, "/connections/"+id+"/groups", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	hub, router := newRouter(t, hubhttp.WithGroupTransformer(tenant))
	conn, err := hub.Connect(context.Background())
	require.NoError(t, err)
	id := conn.ID().String()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, membershipRequest(http.MethodPost, id, `{"parts":["Order",42]}`, "application/json"))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, hub.Members(group.New("tenant", "acme", "order", 42)))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, membershipRequest(http.MethodDelete, id, `{"parts":["order",42]}`, "application/json; charset=utf-8"))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, hub.Members(group.New("tenant", "acme", "order", 42)))
}

func TestSubscribe_Errors(t *testing.T) {
	t.Parallel()

	hub, router := newRouter(t)
	conn, err := hub.Connect(context.Background())
	require.NoError(t, err)
	id := conn.ID().String()

	tests := []struct {
		name        string
		id          string
		body        string
		contentType string
		want        int
	}{
		{name: "invalid id", id: "nope", body: `{"parts":["order"]}`, contentType: "application/json", want: http.StatusBadRequest},
		{name: "unknown connection", id: uuid.NewString(), body: `{"parts":["order"]}`, contentType: "application/json", want: http.StatusNotFound},
		{name: "wrong content type", id: id, body: `{"parts":["order"]}`, contentType: "text/plain", want: http.StatusUnsupportedMediaType},
		{name: "missing content type", id: id, body: `{"parts":["order"]}`, want: http.StatusUnsupportedMediaType},
		{name: "empty parts", id: id, body: `{"parts":[]}`, contentType: "application/json", want: http.StatusBadRequest},
		{name: "unknown field", id: id, body: `{"group":"order"}`, contentType: "application/json", want: http.StatusBadRequest},
		{name: "trailing data", id: id, body: `{"parts":["order"]} {}`, contentType: "application/json", want: http.StatusBadRequest},
		{name: "empty body", id: id, body: ``, contentType: "application/json", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, membershipRequest(http.MethodPost, tt.id, tt.body, tt.contentType))
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

// readSignals returns the JSON object of the next datastar signal patch.
func readSignals(t *testing.T, sc *bufio.Scanner) map[string]json.RawMessage {
	t.Helper()
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		idx := strings.Index(line, "{")
		if idx < 0 {
			continue
		}
		var out map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(line[idx:]), &out))
		return out
	}
	require.NoError(t, sc.Err())
	t.Fatal("stream ended")
	return nil
}

func TestStream(t *testing.T) {
	t.Parallel()

	hub, router := newRouter(t)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream?group=Order&group=order/42", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	sc := bufio.NewScanner(resp.Body)

	var connected hubhttp.Connected
	require.NoError(t, json.Unmarshal(readSignals(t, sc)["connection"], &connected))
	assert.NotEqual(t, uuid.Nil, connected.ConnectionID)
	assert.Equal(t, []group.Group{group.New("order"), group.New("order", 42)}, connected.Groups)

	require.NoError(t, hub.Send(ctx, group.New("order", 42), "order/42/update", map[string]any{"status": "paid"}))

	var env struct {
		Method  string         `json:"method"`
		Group   string         `json:"group"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(readSignals(t, sc)["notification"], &env))
	assert.Equal(t, "order/42/update", env.Method)
	assert.Equal(t, "order/42", env.Group)
	assert.Equal(t, "paid", env.Payload["status"])

	cancel()
	assert.Eventually(t, func() bool {
		return hub.Members(group.New("order")) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
