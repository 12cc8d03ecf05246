package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReconnectConfig_Delay(t *testing.T) {
	for _, tc := range []struct {
		name string
		conf ReconnectConfig
		want []time.Duration
	}{
		{"none", ReconnectConfig{Backoff: BackoffNone, Delay: time.Second}, []time.Duration{0, 0, 0}},
		{"fixed", ReconnectConfig{Backoff: BackoffFixed, Delay: time.Second}, []time.Duration{time.Second, time.Second, time.Second}},
		{"linear", ReconnectConfig{Backoff: BackoffLinear, Delay: time.Second}, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}},
		{"exponential", ReconnectConfig{Backoff: BackoffExponential, Delay: time.Second}, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}},
		{"capped", ReconnectConfig{Backoff: BackoffExponential, Delay: time.Second, MaxDelay: 3 * time.Second}, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.conf.backOff()
			for i, want := range tc.want {
				assert.Equal(t, want, b.NextBackOff(), "retry %d", i+1)
			}

			b.Reset()
			assert.Equal(t, tc.want[0], b.NextBackOff())
		})
	}
}

func TestReconnectConfig_DelayOverflow(t *testing.T) {
	conf := ReconnectConfig{Backoff: BackoffExponential, Delay: time.Hour, MaxDelay: time.Minute}
	b := conf.backOff()
	for range 200 {
		assert.Equal(t, time.Minute, b.NextBackOff())
	}

	conf = ReconnectConfig{Backoff: BackoffLinear, Delay: time.Hour}
	b = conf.backOff()
	for range 200 {
		assert.Positive(t, b.NextBackOff())
	}
}
