// Package observe wraps the repository interfaces with cheap instrumentation:
// expvar counters per operation and debug-level duration logs. Decorators are
// applied at composition time so the storage code stays clean.
package observe

import (
	"expvar"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	mu       sync.Mutex
	counters = map[string]*expvar.Int{}
)

func counter(name string) *expvar.Int {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := counters[name]; ok {
		return c
	}
	c := expvar.NewInt(name)
	counters[name] = c
	return c
}

// track records one call: increments repo.<name>.calls (and .errors on
// failure) and logs the duration.
func track(logger *logrus.Logger, name string, start time.Time, err error) {
	counter("repo." + name + ".calls").Add(1)
	if err != nil {
		counter("repo." + name + ".errors").Add(1)
	}
	logger.WithFields(logrus.Fields{
		"op":          name,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("repository call")
}
