package bugzilla

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.URL.Query().Get("api_key"))
		fmt.Fprintf(w, `{"bug_count": %s}`, r.URL.Query().Get("n"))
	}))
	defer srv.Close()

	queries := []Query{
		{Name: "open-blockers", URL: srv.URL + "/rest/bug?count_only=1&n=3"},
		{Name: "new-regressions", URL: srv.URL + "/rest/bug?count_only=1&n=17"},
		{Name: "top-crashers", URL: srv.URL + "/rest/bug?count_only=1&n=0"},
	}

	counts, err := New("secret").Counts(context.Background(), queries)
	require.NoError(t, err)

	// Results come back in query order regardless of completion order.
	assert.Equal(t, []Count{
		{Name: "open-blockers", Count: 3},
		{Name: "new-regressions", Count: 17},
		{Name: "top-crashers", Count: 0},
	}, counts)
}

func TestCountsNoAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("api_key"))
		fmt.Fprint(w, `{"bug_count": 1}`)
	}))
	defer srv.Close()

	counts, err := New("").Counts(context.Background(), []Query{{Name: "q", URL: srv.URL}})
	require.NoError(t, err)
	assert.Equal(t, 1, counts[0].Count)
}

func TestCountsQueryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") == "1" {
			http.Error(w, "no", http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `{"bug_count": 5}`)
	}))
	defer srv.Close()

	queries := []Query{
		{Name: "good", URL: srv.URL + "/?count_only=1"},
		{Name: "bad", URL: srv.URL + "/?count_only=1&fail=1"},
	}

	_, err := New("k").Counts(context.Background(), queries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `query "bad"`)
	assert.Contains(t, err.Error(), "403")
}

func TestReleaseHealthQueriesShape(t *testing.T) {
	require.Len(t, ReleaseHealthQueries, 8)
	for _, q := range ReleaseHealthQueries {
		assert.Contains(t, q.URL, "count_only=1", q.Name)
		assert.Contains(t, q.URL, "https://bugzilla.mozilla.org/rest/bug", q.Name)
	}
}
