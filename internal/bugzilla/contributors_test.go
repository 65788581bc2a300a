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

// contributorsServer answers the three query shapes NewContributors
// issues: the fixed-bug search, the per-account group lookup, and the
// prior-fix history search.
func contributorsServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var userLookups []string

	mux := http.NewServeMux()
	mux.HandleFunc("/bug", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "secret", q.Get("api_key"))

		if q.Get("target_milestone") != "" {
			assert.Equal(t, "143 Branch", q.Get("target_milestone"))
			assert.ElementsMatch(t, []string{"RESOLVED", "VERIFIED"}, q["status"])
			assert.Len(t, q["product"], len(desktopProducts))
			fmt.Fprint(w, `{"bugs": [
				{"id": 1, "assigned_to": "staff@mozilla.com", "cf_last_resolved": "2026-08-01T10:00:00Z",
				 "assigned_to_detail": {"real_name": "Staff", "nick": "staff"}},
				{"id": 2, "assigned_to": "newbie@example.com", "cf_last_resolved": "2026-08-02T10:00:00Z",
				 "assigned_to_detail": {"real_name": "Ada Lovelace", "nick": "ada"}},
				{"id": 3, "assigned_to": "veteran@example.org", "cf_last_resolved": "2026-08-03T10:00:00Z",
				 "assigned_to_detail": {"real_name": "Old Hand", "nick": "oldhand"}},
				{"id": 4, "assigned_to": "hidden@example.net", "cf_last_resolved": "2026-08-04T10:00:00Z",
				 "assigned_to_detail": {"real_name": "Hidden", "nick": "hidden"}},
				{"id": 5, "assigned_to": "newbie@example.com", "cf_last_resolved": "2026-08-05T10:00:00Z",
				 "assigned_to_detail": {"real_name": "Ada Lovelace", "nick": "ada"}},
				{"id": 6, "assigned_to": "quiet@example.com", "cf_last_resolved": "2026-08-06T10:00:00Z",
				 "assigned_to_detail": {"real_name": "", "nick": "nicky"}}
			]}`)
			return
		}

		// Prior-fix history search. The resolved stamp loses its T and Z.
		assert.Equal(t, "1", q.Get("emailassigned_to1"))
		assert.NotContains(t, q.Get("v1"), "T")
		assert.Equal(t, "1", q.Get("limit"))
		if q.Get("email1") == "veteran@example.org" {
			fmt.Fprint(w, `{"bugs": [{"id": 99}]}`)
			return
		}
		fmt.Fprint(w, `{"bugs": []}`)
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("names")
		userLookups = append(userLookups, name)
		if name == "hidden@example.net" {
			fmt.Fprint(w, `{"users": [{"groups": [{"name": "mozilla-employee-confidential"}]}]}`)
			return
		}
		fmt.Fprint(w, `{"users": [{"groups": [{"name": "editbugs"}]}]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &userLookups
}

func TestNewContributors(t *testing.T) {
	srv, userLookups := contributorsServer(t)

	client := New("secret")
	client.BaseURL = srv.URL
	contributors, err := client.NewContributors(context.Background(), 143)
	require.NoError(t, err)

	// Staff addresses are dropped, the employee group member and the
	// account with an earlier fix are ruled out, and the rest come back
	// sorted by name with all their bugs.
	require.Len(t, contributors, 2)
	assert.Equal(t, "Ada Lovelace", contributors[0].Name)
	assert.Equal(t, "newbie@example.com", contributors[0].Email)
	assert.Equal(t, []int{2, 5}, contributors[0].Bugs)
	// An empty real name falls back to the nick.
	assert.Equal(t, "nicky", contributors[1].Name)
	assert.Equal(t, []int{6}, contributors[1].Bugs)

	// Each account is looked up at most once, and staff addresses never.
	assert.Equal(t, []string{
		"newbie@example.com",
		"veteran@example.org",
		"hidden@example.net",
		"quiet@example.com",
	}, *userLookups)
}

func TestNewContributorsSearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "no"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client := New("secret")
	client.BaseURL = srv.URL
	_, err := client.NewContributors(context.Background(), 143)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Firefox 143")
	assert.Contains(t, err.Error(), "403")
}

func TestIsEmployeeAddress(t *testing.T) {
	assert.True(t, isEmployeeAddress("someone@mozilla.com"))
	assert.True(t, isEmployeeAddress("qa@softvision.ro"))
	assert.False(t, isEmployeeAddress("someone@example.com"))
	assert.False(t, isEmployeeAddress("mozilla.com@example.com"))
}

func TestAnnouncement(t *testing.T) {
	got := Announcement(143, []Contributor{
		{Email: "a@example.com", Name: "Ada Lovelace", Bugs: []int{2, 5}},
		{Email: "n@example.com", Name: "nicky", Bugs: []int{6}},
	})

	assert.Contains(t, got, "With the release of Firefox 143")
	assert.Contains(t, got, "2 of whom were brand new volunteers")
	assert.Contains(t, got,
		`* Ada Lovelace: <a href="https://bugzilla.mozilla.org/2">2</a>, <a href="https://bugzilla.mozilla.org/5">5</a>`)
	assert.Contains(t, got, `* nicky: <a href="https://bugzilla.mozilla.org/6">6</a>`)
}
