package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSales(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"order_date": "2024-01-01", "sales_amount": 1000, "channel": "Amazon"},
			{"order_date": "2024-01-02", "sales_amount": 2500.5}
		]`))
	}))
	defer srv.Close()

	client := NewClient(WithToken("secret"))
	table, err := client.FetchSales(context.Background(), srv.URL)
	require.NoError(t, err)

	// Header is the sorted union of keys across all objects.
	assert.Equal(t, []string{"channel", "order_date", "sales_amount"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Amazon", "2024-01-01", "1000"}, table.Rows[0])
	assert.Equal(t, []string{"", "2024-01-02", "2500.5"}, table.Rows[1])
}

func TestFetchSalesBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "pass", pass)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(WithToken("user:pass"))
	table, err := client.FetchSales(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, table.Empty())
}

func TestFetchSalesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient().FetchSales(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchSalesBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	_, err := NewClient().FetchSales(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "abc", cellString("abc"))
	assert.Equal(t, "3", cellString(float64(3)))
	assert.Equal(t, "3.5", cellString(3.5))
	assert.Equal(t, "true", cellString(true))
}
