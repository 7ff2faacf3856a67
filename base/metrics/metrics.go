/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"time"

	"github.com/spf13/viper"

	"github.com/x-xyz/marketcore/base/env"
	"github.com/x-xyz/marketcore/base/log"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)
	BumpTime(key string, tags ...string) Ender
}

// New creates a metric client with package name as prefix. Tags are passed
// as key, value pairs.
func New(pkgName string) Service {
	return &service{
		pkgName: pkgName,
		ddTags: []string{
			// using host removes all tags associated with host
			// ref: https://docs.datadoghq.com/developers/dogstatsd/data_types/#host-tag-key
			"host:",
			"pod:" + env.PodName(),
			"env:" + viper.GetString("env_name"),
			"app:" + viper.GetString("app_name"),
		},
	}
}

type service struct {
	pkgName string
	ddTags  []string
}

func (s *service) BumpSum(key string, val float64, tags ...string) {
	defer s.recover(key)
	if err := client().Count(s.pkgName+"."+key, int64(val), s.tags(tags), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key}).Error("failed to bump sum")
	}
}

func (s *service) BumpHistogram(key string, val float64, tags ...string) {
	defer s.recover(key)
	if err := client().Histogram(s.pkgName+"."+key, val, s.tags(tags), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key}).Error("failed to bump histogram")
	}
}

// BumpTime starts a timer, call End on the result to record it:
//
//     defer s.BumpTime("settle.time").End()
func (s *service) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{start: time.Now(), key: s.pkgName + "." + key, tags: s.tags(tags)}
}

func (s *service) tags(kvs []string) []string {
	if len(kvs)%2 != 0 {
		log.Log().WithField("tags", kvs).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, 0, len(s.ddTags)+len(kvs)/2)
	arr = append(arr, s.ddTags...)
	for i := 0; i < len(kvs); i += 2 {
		arr = append(arr, kvs[i]+":"+kvs[i+1])
	}
	return arr
}

func (s *service) recover(key string) {
	if p := recover(); p != nil {
		log.Log().WithFields(log.Fields{"panic": p, "key": key}).Error("metrics panic")
	}
}

type timeTracker struct {
	start time.Time
	key   string
	tags  []string
}

func (t *timeTracker) End() {
	ms := float64(time.Since(t.start)) / float64(time.Millisecond)
	if err := client().TimeInMilliseconds(t.key, ms, t.tags, 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": t.key}).Error("failed to bump time")
	}
}

// Nop drops every metric
func Nop() Service {
	return nop{}
}

type nop struct{}

func (nop) BumpSum(string, float64, ...string)       {}
func (nop) BumpHistogram(string, float64, ...string) {}
func (nop) BumpTime(string, ...string) Ender         { return nop{} }
func (nop) End()                                     {}
