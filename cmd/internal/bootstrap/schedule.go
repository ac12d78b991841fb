package bootstrap

import (
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// scheduleDetail is the optional input of a manual run, e.g. {"force": true}
type scheduleDetail struct {
	Force bool `json:"force"`
}

// ScheduledRun reads the run time and force flag of a scheduler event. The
// event time wins over the wall clock so retries land on the same period.
func ScheduledRun(event events.CloudWatchEvent) (now time.Time, force bool) {
	now = event.Time
	if now.IsZero() {
		now = time.Now()
	}
	var detail scheduleDetail
	if len(event.Detail) > 0 && json.Unmarshal(event.Detail, &detail) == nil {
		force = detail.Force
	}
	return now.UTC(), force
}
