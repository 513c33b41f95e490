// Package job defines the queue job envelope shared by producers and
// handlers.
package job

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Action type constants for the sync queue.
const (
	ActionPlatformReconcile = "platform_reconcile"
	ActionCargoPublish      = "cargo_publish"
)

// Job is the standard envelope on the wire.
type Job struct {
	Payload *Payload `json:"payload"`
}

// Payload wraps the data block.
type Payload struct {
	Data *Data `json:"data"`
}

// Data carries routing metadata and the business fields. Platform names
// the marketplace; ExternalNo is set only for per-order actions.
type Data struct {
	RequestID  string `json:"request_id"`
	ActionType string `json:"action_type"`
	Platform   string `json:"platform"`
	ExternalNo string `json:"external_no,omitempty"`
}

// Meta is the extracted routing metadata handed to handlers.
type Meta struct {
	RequestID  string
	ActionType string
	Platform   string
	ExternalNo string
}

// NewReconcile builds a reconcile job for one platform.
func NewReconcile(platform string) *Job {
	return newJob(ActionPlatformReconcile, platform, "")
}

// NewPublish builds a publish job for one order.
func NewPublish(platform, externalNo string) *Job {
	return newJob(ActionCargoPublish, platform, externalNo)
}

func newJob(actionType, platform, externalNo string) *Job {
	return &Job{
		Payload: &Payload{
			Data: &Data{
				RequestID:  uuid.New().String(),
				ActionType: actionType,
				Platform:   platform,
				ExternalNo: externalNo,
			},
		},
	}
}

// Encode serializes the job for publishing.
func (j *Job) Encode() ([]byte, error) {
	return json.Marshal(j)
}
