package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCrawlCollectsAllPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(catalogPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "" {
			fmt.Fprint(w, firstPageHTML)
			return
		}
		// Past the first page the crawler must ask for the alternate table type.
		if r.URL.Query().Get("type") != "1" {
			http.Error(w, "missing type param", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, laterPageHTML)
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detailHTML)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := New(&Config{BaseURL: ts.URL, Delay: 0, Concurrency: 2}, zap.NewNop())
	c.HTTPClient = ts.Client()

	records, err := c.Crawl(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "101", first.ID)
	assert.Equal(t, "Verify G+", first.Name)
	assert.Equal(t, ts.URL+"/products/verify-g-plus/", first.URL)
	assert.Equal(t, 36, first.Duration)
	assert.Equal(t, "Measures general cognitive ability.", first.Description)
	assert.Equal(t, "Yes", first.RemoteSupport)
	assert.Equal(t, "No", first.AdaptiveSupport)
	assert.Equal(t, []string{"Ability & Aptitude", "Knowledge & Skills"}, first.TestType)

	assert.Equal(t, "103", records[2].ID)
	assert.Equal(t, []string{"Simulations"}, records[2].TestType)
}

func TestCrawlDetailFailureDegradesToSentinels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(catalogPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "" {
			fmt.Fprint(w, firstPageHTML)
			return
		}
		fmt.Fprint(w, laterPageHTML)
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := New(&Config{BaseURL: ts.URL, Delay: 0}, zap.NewNop())
	c.HTTPClient = ts.Client()

	records, err := c.Crawl(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	for _, record := range records {
		assert.Equal(t, -1, record.Duration)
		assert.Equal(t, "N/A", record.Description)
	}
}

func TestCrawlFirstPageFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := New(&Config{BaseURL: ts.URL, Delay: 0}, zap.NewNop())
	c.HTTPClient = ts.Client()

	_, err := c.Crawl(context.Background())
	require.Error(t, err)
}

func TestListingURL(t *testing.T) {
	c := New(&Config{BaseURL: "https://example.com"}, zap.NewNop())

	assert.Equal(t, "https://example.com"+catalogPath, c.listingURL(0, true))
	assert.Equal(t, "https://example.com"+catalogPath+"?start=12&type=1", c.listingURL(12, false))
}
