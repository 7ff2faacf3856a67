package metrics

import (
	"fmt"
	"sync"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/x-xyz/marketcore/base/log"
)

const (
	ddPort = 8125
	// buffer 10 metrics before sending to statsd
	bufferMetrics = 10
)

var (
	initOnce sync.Once
	ddClient statsCli
)

type statsCli interface {
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

// client is shared by every Service so the buffer is flushed together over
// a single connection. Without datadog_host metrics go to the debug log.
func client() statsCli {
	initOnce.Do(func() {
		host := viper.GetString("datadog_host")
		if host == "" {
			ddClient = &logClient{}
			return
		}
		addr := fmt.Sprintf("%s:%d", host, ddPort)
		c, err := statsd.NewBuffered(addr, bufferMetrics)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Error("can't talk to datadog agent")
			ddClient = &logClient{}
			return
		}
		log.Log().WithField("addr", addr).Info("connected to datadog agent")
		ddClient = c
	})
	return ddClient
}
