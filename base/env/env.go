package env

import (
	"os"
)

// PodName is the kubernetes pod the process runs in, falling back to the
// hostname outside of a cluster
func PodName() string {
	if name := os.Getenv("PODNAME"); name != "" {
		return name
	}
	name, _ := os.Hostname()
	return name
}
