package lmstfyx

import (
	"context"

	"github.com/bitleak/lmstfy/client"
)

// Proc is the business processing function signature injected into the
// processor. It receives the raw lmstfy job and reports the outcome.
type Proc func(ctx context.Context, job *client.Job) *JobResp

// JobRespStatus is the processing outcome of one job.
type JobRespStatus int

const (
	// JobRespStatusSuccess acks the job.
	JobRespStatusSuccess JobRespStatus = iota
	// JobRespStatusRelease leaves the job unacked so the broker redelivers
	// it after the TTR expires.
	JobRespStatusRelease
	// JobRespStatusBury acks and drops a job that can never succeed.
	JobRespStatusBury
)

// JobResp is the processing result handed back to the processor.
type JobResp struct {
	Action JobRespStatus
	Data   []byte
}
