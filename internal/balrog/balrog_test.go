package balrog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBlob = `{
  "platforms": {
    "Darwin_x86_64-gcc3": {
      "locales": {
        "en-US": {"buildID": "20250825090000"},
        "de": {"buildID": "20250826090000"}
      }
    },
    "WINNT_x86_64-msvc": {
      "locales": {
        "en-US": {"buildID": "20250824090000"}
      }
    },
    "Linux_x86_64-gcc3-alias": {}
  }
}`

func TestCheckNightly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleBlob))
	}))
	defer srv.Close()

	stale, err := New(srv.URL).CheckNightly(context.Background(), 20250826090000)
	require.NoError(t, err)

	assert.Equal(t, []StaleBuild{
		{Platform: "Darwin_x86_64-gcc3", Locale: "en-US", BuildID: 20250825090000},
		{Platform: "WINNT_x86_64-msvc", Locale: "en-US", BuildID: 20250824090000},
	}, stale)
}

func TestCheckNightlyAllCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleBlob))
	}))
	defer srv.Close()

	stale, err := New(srv.URL).CheckNightly(context.Background(), 20250824000000)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestCheckNightlyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not today", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).CheckNightly(context.Background(), 20250826090000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCheckNightlyBadBuildID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"platforms":{"p":{"locales":{"l":{"buildID":"not-a-number"}}}}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).CheckNightly(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad buildID")
}
