package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yutingli1123/plumasphere-go/transport"
)

// fakeSession records teardown and serves a fixed token.
type fakeSession struct {
	lock       sync.Mutex
	token      string
	tokenCalls int
	loggedOut  bool
}

func (f *fakeSession) GetAccessToken(context.Context) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.tokenCalls++
	return f.token, nil
}

func (f *fakeSession) Logout() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.loggedOut = true
}

type recordingNotifier struct {
	lock  sync.Mutex
	kinds []transport.Kind
}

func (n *recordingNotifier) Notify(kind transport.Kind, _ string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.kinds = append(n.kinds, kind)
}

func newClient(t *testing.T, serverURL string, session *fakeSession, notifier *recordingNotifier) *transport.Client {
	t.Helper()
	client, err := transport.New(serverURL, transport.WithNotifier(notifier))
	require.NoError(t, err)
	if session != nil {
		client.BindSession(session)
	}
	return client
}

func TestAttachesBearerTokenWhenAuthRequired(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		require.Equal(t, "/api/v1/post/1/like", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	session := &fakeSession{token: "token-123"}
	client := newClient(t, server.URL, session, &recordingNotifier{})

	err := client.Post(context.Background(), "/post/1/like", nil, true, nil)
	require.NoError(t, err)
	require.Equal(t, "Bearer token-123", gotAuth)
	require.NotEmpty(t, gotRequestID)
	require.Equal(t, 1, session.tokenCalls)
}

func TestAnonymousByDefault(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	session := &fakeSession{token: "token-123"}
	client := newClient(t, server.URL, session, &recordingNotifier{})

	var out []string
	err := client.Get(context.Background(), "/post", nil, false, &out)
	require.NoError(t, err)
	require.Empty(t, gotAuth)
	require.Zero(t, session.tokenCalls)
}

func TestNoTokenProceedsUnauthenticated(t *testing.T) {
	var sawAuthHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuthHeader = r.Header.Get("Authorization") != ""
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newClient(t, server.URL, &fakeSession{token: ""}, &recordingNotifier{})

	err := client.Get(context.Background(), "/user/me", nil, true, nil)
	require.NoError(t, err)
	require.False(t, sawAuthHeader)
}

func TestUnauthorizedTriggersLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	session := &fakeSession{token: "stale"}
	notifier := &recordingNotifier{}
	client := newClient(t, server.URL, session, notifier)

	var out string
	err := client.Get(context.Background(), "/user/me", nil, true, &out)
	require.Error(t, err)

	var transportErr *transport.Error
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, transport.KindUnauthorized, transportErr.Kind)
	require.Equal(t, http.StatusUnauthorized, transportErr.Status)
	require.True(t, session.loggedOut)
	require.Equal(t, []transport.Kind{transport.KindUnauthorized}, notifier.kinds)
	require.Empty(t, out, "caller sees no result")
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		kind   transport.Kind
	}{
		{http.StatusForbidden, transport.KindForbidden},
		{http.StatusNotFound, transport.KindNotFound},
		{http.StatusUnprocessableEntity, transport.KindClient},
		{http.StatusInternalServerError, transport.KindServer},
		{http.StatusBadGateway, transport.KindServer},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			notifier := &recordingNotifier{}
			client := newClient(t, server.URL, nil, notifier)

			err := client.Get(context.Background(), "/post", nil, false, nil)
			var transportErr *transport.Error
			require.ErrorAs(t, err, &transportErr)
			require.Equal(t, tt.kind, transportErr.Kind)
			require.Equal(t, tt.status, transportErr.Status)
			require.Len(t, notifier.kinds, 1, "exactly one notification per failure")
		})
	}
}

func TestNetworkFailureIsDistinct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	notifier := &recordingNotifier{}
	client := newClient(t, server.URL, nil, notifier)

	err := client.Get(context.Background(), "/post", nil, false, nil)
	var transportErr *transport.Error
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, transport.KindNetwork, transportErr.Kind)
	require.Zero(t, transportErr.Status)
	require.Equal(t, []transport.Kind{transport.KindNetwork}, notifier.kinds)
}

func TestDecodeJSONAndPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/status/version":
			w.Write([]byte("1.0.0")) // plain text
		case "/api/v1/post/7/like":
			w.Write([]byte("42"))
		default:
			w.Write([]byte(`{"configKey":"BLOG_TITLE","configValue":"Pluma"}`))
		}
	}))
	defer server.Close()

	client := newClient(t, server.URL, nil, &recordingNotifier{})

	var version string
	require.NoError(t, client.Get(context.Background(), "/status/version", nil, false, &version))
	require.Equal(t, "1.0.0", version)

	var count int
	require.NoError(t, client.Get(context.Background(), "/post/7/like", nil, false, &count))
	require.Equal(t, 42, count)

	var entry struct {
		ConfigKey   string `json:"configKey"`
		ConfigValue string `json:"configValue"`
	}
	require.NoError(t, client.Get(context.Background(), "/status", nil, false, &entry))
	require.Equal(t, "Pluma", entry.ConfigValue)
}

func TestQueryParameters(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, nil, &recordingNotifier{})

	query := url.Values{}
	query.Set("page", "3")
	query.Set("keyword", "gopher")
	require.NoError(t, client.Get(context.Background(), "/post/search", query, false, nil))
	require.Equal(t, "3", gotQuery.Get("page"))
	require.Equal(t, "gopher", gotQuery.Get("keyword"))
}
