package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tender-reporter/internal/report"
)

func TestFetchReport(t *testing.T) {
	var gotPath string
	var gotReq report.Request

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		assert.NotEmpty(t, r.Header.Get("X-Signature"))
		assert.NotEmpty(t, r.Header.Get("X-Timestamp"))

		resp := `{"meta":{"params_used":{"sellerName":"Acme","days":30,"limit":10}},"data":{"missedButWinnable":{"recentWins":[{"bid_number":"B1","total_price":1000}]}}}`
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(resp))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "testsecret", 5*time.Second)
	in, err := c.FetchReport(context.Background(), &report.Request{SellerName: "Acme", Days: 30, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, "/v1/analytics/report", gotPath)
	assert.Equal(t, "Acme", gotReq.SellerName)
	require.Len(t, in.Data.MissedButWinnable.RecentWins, 1)
	// Normalization happened.
	assert.NotNil(t, in.Data.TopStates)
	assert.False(t, in.Meta.GeneratedAt.IsZero())
}

func TestFetchReportUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", 5*time.Second)
	_, err := c.FetchReport(context.Background(), &report.Request{SellerName: "Acme", Days: 30, Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetchReportContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	c := NewHTTPClient(srv.URL, "", 5*time.Second)
	_, err := c.FetchReport(ctx, &report.Request{SellerName: "Acme", Days: 30, Limit: 10})
	assert.Error(t, err)
}

func TestFetchReportFillsParamsFromRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"missedButWinnable":{}}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", 5*time.Second)
	in, err := c.FetchReport(context.Background(), &report.Request{
		SellerName: "Acme", Department: "Defence", Days: 45, Limit: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme", in.Meta.ParamsUsed.SellerName)
	assert.Equal(t, "Defence", in.Meta.ParamsUsed.Department)
	assert.Equal(t, 45, in.Meta.ParamsUsed.Days)
}
