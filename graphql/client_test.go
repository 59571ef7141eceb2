package graphql_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/go-storefront/authctx"
	"github.com/jrsteele09/go-storefront/graphql"
	"github.com/jrsteele09/go-storefront/internal/metrics"
	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// recordingAPI answers every request with a fixed status/body and records the authorization headers it saw
type recordingAPI struct {
	mu      sync.Mutex
	headers []string
	present []bool
	status  int
	body    string
	srv     *httptest.Server
}

func newRecordingAPI(t *testing.T, status int, body string) *recordingAPI {
	t.Helper()
	api := &recordingAPI{status: status, body: body}
	api.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphql.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		_, present := r.Header["Authorization"]
		api.mu.Lock()
		api.headers = append(api.headers, r.Header.Get("Authorization"))
		api.present = append(api.present, present)
		api.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(api.status)
		_, _ = w.Write([]byte(api.body))
	}))
	t.Cleanup(api.srv.Close)
	return api
}

func (a *recordingAPI) seen() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.headers...)
}

func newClient(t *testing.T, api *recordingAPI, options ...graphql.Option) *graphql.Client {
	t.Helper()
	options = append([]graphql.Option{graphql.WithHTTPClient(api.srv.Client())}, options...)
	c, err := graphql.New(api.srv.URL, options...)
	require.NoError(t, err)
	return c
}

const okBody = `{"data":{"allShops":{"data":[{"_id":"1","name":"Shop"}]}}}`

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := graphql.New("")
	require.Error(t, err)
}

func TestDo_DecodesData(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, okBody)
	c := newClient(t, api)

	var out struct {
		AllShops struct {
			Data []struct {
				ID   string `json:"_id"`
				Name string `json:"name"`
			} `json:"data"`
		} `json:"allShops"`
	}
	err := c.Do(context.Background(), graphql.Request{Query: "query { allShops { data { _id name } } }", OperationName: "AllShops"}, &out)
	require.NoError(t, err)
	require.Len(t, out.AllShops.Data, 1)
	assert.Equal(t, "Shop", out.AllShops.Data[0].Name)
}

func TestDo_HeaderFromContextAtSendTime(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, okBody)
	c := newClient(t, api)

	ctx := context.Background()
	require.NoError(t, c.Do(ctx, graphql.Request{Query: "{ a }"}, nil))

	ctx = authctx.WithSession(ctx, sessions.New("o@example.com", "owner-1", "s1", sessions.Seconds(3600)))
	require.NoError(t, c.Do(ctx, graphql.Request{Query: "{ a }"}, nil))

	require.NoError(t, c.Do(authctx.WithOverride(ctx, "public-key"), graphql.Request{Query: "{ a }"}, nil))

	assert.Equal(t, []string{"", "Bearer s1", "Bearer public-key"}, api.seen())
	assert.True(t, api.present[0], "the empty authorization header is still sent")
}

func TestWithProvider_DoesNotAffectOriginal(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, okBody)
	base := newClient(t, api, graphql.WithAuthProvider(authctx.Anonymous()))
	shop := base.WithProvider(authctx.Override("pk"))

	require.NoError(t, base.Do(context.Background(), graphql.Request{Query: "{ a }"}, nil))
	require.NoError(t, shop.Do(context.Background(), graphql.Request{Query: "{ a }"}, nil))
	require.NoError(t, base.Do(context.Background(), graphql.Request{Query: "{ a }"}, nil))

	assert.Equal(t, []string{"", "Bearer pk", ""}, api.seen())
	assert.Equal(t, base.Endpoint(), shop.Endpoint())
}

func TestSwappable_OnlyLaterRequestsChange(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, okBody)
	active := authctx.NewSwappable(authctx.Anonymous())
	c := newClient(t, api, graphql.WithAuthProvider(active))

	require.NoError(t, c.Do(context.Background(), graphql.Request{Query: "{ a }"}, nil))
	active.Swap(authctx.Override("late-key"))
	require.NoError(t, c.Do(context.Background(), graphql.Request{Query: "{ a }"}, nil))

	assert.Equal(t, []string{"", "Bearer late-key"}, api.seen())
}

func TestDo_GraphQLErrors(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, `{"data":null,"errors":[{"message":"authentication failed"}]}`)
	c := newClient(t, api)

	err := c.Do(context.Background(), graphql.Request{Query: "mutation { login }", OperationName: "OwnerLogin"}, nil)
	require.Error(t, err)
	assert.Equal(t, graphql.KindGraphQL, graphql.KindOf(err))
	assert.Equal(t, "authentication failed", graphql.MessagesOf(err).Error())
	assert.Contains(t, err.Error(), "OwnerLogin")
}

func TestDo_Unauthorized(t *testing.T) {
	api := newRecordingAPI(t, http.StatusUnauthorized, `{"errors":[{"message":"Invalid database secret."}]}`)
	c := newClient(t, api)

	err := c.Do(context.Background(), graphql.Request{Query: "{ a }"}, nil)
	require.Error(t, err)
	assert.Equal(t, graphql.KindUnauthorized, graphql.KindOf(err))
	assert.Equal(t, "Invalid database secret.", graphql.MessagesOf(err).Error())
}

func TestDo_HTTPStatus(t *testing.T) {
	api := newRecordingAPI(t, http.StatusBadGateway, `upstream down`)
	err := newClient(t, api).Do(context.Background(), graphql.Request{Query: "{ a }"}, nil)
	assert.Equal(t, graphql.KindHTTP, graphql.KindOf(err))
}

func TestDo_DecodeFailure(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, `not json`)
	err := newClient(t, api).Do(context.Background(), graphql.Request{Query: "{ a }"}, nil)
	assert.Equal(t, graphql.KindDecode, graphql.KindOf(err))

	api = newRecordingAPI(t, http.StatusOK, `{"data":{"a":"string"}}`)
	var out struct {
		A int `json:"a"`
	}
	err = newClient(t, api).Do(context.Background(), graphql.Request{Query: "{ a }"}, &out)
	assert.Equal(t, graphql.KindDecode, graphql.KindOf(err))
}

func TestDo_NetworkFailure(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, okBody)
	c := newClient(t, api)
	api.srv.Close()

	err := c.Do(context.Background(), graphql.Request{Query: "{ a }"}, nil)
	assert.Equal(t, graphql.KindNetwork, graphql.KindOf(err))
}

func TestDo_ProviderFailureSendsNothing(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, okBody)
	failing := authctx.ProviderFunc(func(context.Context) (http.Header, error) {
		return nil, assert.AnError
	})
	err := newClient(t, api, graphql.WithAuthProvider(failing)).Do(context.Background(), graphql.Request{Query: "{ a }"}, nil)
	assert.Equal(t, graphql.KindProvider, graphql.KindOf(err))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, api.seen())
}

func TestDo_Metrics(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, okBody)
	m := metrics.NewTestManager()
	c := newClient(t, api, graphql.WithMetrics(m))

	require.NoError(t, c.Do(context.Background(), graphql.Request{Query: "{ a }", OperationName: "AllShops"}, nil))
	require.NoError(t, c.Do(context.Background(), graphql.Request{Query: "{ a }"}, nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterGraphQLRequests.WithLabelValues("AllShops", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterGraphQLRequests.WithLabelValues("anonymous", "ok")))
}

func TestDo_UnencodableRequest(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, okBody)
	m := metrics.NewTestManager()
	c := newClient(t, api, graphql.WithMetrics(m))

	err := c.Do(context.Background(), graphql.Request{
		Query:         "{ a }",
		OperationName: "CreateProduct",
		Variables:     map[string]interface{}{"price": math.Inf(1)},
	}, nil)
	assert.Equal(t, graphql.KindEncode, graphql.KindOf(err))
	assert.Empty(t, api.seen())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterGraphQLRequests.WithLabelValues("CreateProduct", "encode")))
}

func TestDo_ResponseTooLarge(t *testing.T) {
	api := newRecordingAPI(t, http.StatusOK, okBody)
	m := metrics.NewTestManager()

	c := newClient(t, api, graphql.WithMaxResponseSize(int64(len(okBody))), graphql.WithMetrics(m))
	require.NoError(t, c.Do(context.Background(), graphql.Request{Query: "{ a }"}, nil))

	c = newClient(t, api, graphql.WithMaxResponseSize(int64(len(okBody)-1)), graphql.WithMetrics(m))
	err := c.Do(context.Background(), graphql.Request{Query: "{ a }", OperationName: "AllShops"}, nil)
	assert.Equal(t, graphql.KindDecode, graphql.KindOf(err))
	assert.ErrorIs(t, err, graphql.ErrResponseTooLarge)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterGraphQLRequests.WithLabelValues("AllShops", "decode")))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, graphql.KindNone, graphql.KindOf(nil))
	assert.Equal(t, graphql.KindNone, graphql.KindOf(assert.AnError))
	assert.Equal(t, "unauthorized", graphql.KindUnauthorized.String())
}
