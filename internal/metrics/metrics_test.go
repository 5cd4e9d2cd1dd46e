package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestUpstreamRequestsCounter(t *testing.T) {
	require.Equal(t, float64(0), testutil.ToFloat64(UpstreamRequests.WithLabelValues("/deposit/create", "success")))

	UpstreamRequests.WithLabelValues("/deposit/create", "success").Inc()

	require.Equal(t, float64(1), testutil.ToFloat64(UpstreamRequests.WithLabelValues("/deposit/create", "success")))
}

func TestUpstreamLatencyHistogram(t *testing.T) {
	require.Equal(t, 0, testutil.CollectAndCount(UpstreamLatency))

	UpstreamLatency.WithLabelValues("/layanan/price_list").Observe(0.321)

	require.Equal(t, 1, testutil.CollectAndCount(UpstreamLatency))
}

func TestCacheOperationsCounter(t *testing.T) {
	require.Equal(t, float64(0), testutil.ToFloat64(CacheOperations.WithLabelValues("get", "hit")))
	CacheOperations.WithLabelValues("get", "hit").Inc()
	require.Equal(t, float64(1), testutil.ToFloat64(CacheOperations.WithLabelValues("get", "hit")))
}

func TestObserveStore(t *testing.T) {
	ObserveStore("create", nil)
	ObserveStore("create", errors.New("disk full"))
	ObserveStore("create", nil)

	require.Equal(t, float64(2), testutil.ToFloat64(StoreOperations.WithLabelValues("create", "success")))
	require.Equal(t, float64(1), testutil.ToFloat64(StoreOperations.WithLabelValues("create", "error")))
}

func TestHTTPRequestsCounter(t *testing.T) {
	require.Equal(t, float64(0), testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/test", "200")))
	HTTPRequests.WithLabelValues("GET", "/api/test", "200").Inc()
	require.Equal(t, float64(1), testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/test", "200")))
}

func TestHTTPResponseTimeHistogram(t *testing.T) {
	require.Equal(t, 0, testutil.CollectAndCount(HTTPResponseTime))

	HTTPResponseTime.WithLabelValues("POST", "/api/test").Observe(0.456)

	require.Equal(t, 1, testutil.CollectAndCount(HTTPResponseTime))
}
