package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.CollectAndCount(RequestDuration)
	ObserveRequest("http", "/metrics-test", "200", 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.CollectAndCount(RequestDuration))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(FollowsCreated)
	FollowsCreated.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(FollowsCreated))

	LoginFailure.WithLabelValues("bad_password").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(LoginFailure.WithLabelValues("bad_password")), 1.0)
}
