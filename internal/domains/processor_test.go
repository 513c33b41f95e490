package domains

import (
	"context"
	"errors"
	"testing"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKR-SG/ASP/internal/domains/job"
	"github.com/SKR-SG/ASP/pkg/errorutil"
	"github.com/SKR-SG/ASP/pkg/lmstfyx"
	"github.com/SKR-SG/ASP/pkg/logger"
)

type fakeEngine struct {
	runPlatform string
	published   []string
	runErr      error
	publishErr  error
}

func (f *fakeEngine) Run(_ context.Context, platform string) error {
	f.runPlatform = platform
	return f.runErr
}

func (f *fakeEngine) PublishOrder(_ context.Context, _, externalNo string) error {
	f.published = append(f.published, externalNo)
	return f.publishErr
}

func encodedJob(t *testing.T, j *job.Job) *client.Job {
	t.Helper()
	data, err := j.Encode()
	require.NoError(t, err)
	return &client.Job{ID: "job-1", Queue: "order_sync", Data: data}
}

func TestGetProcessRoutesReconcile(t *testing.T) {
	eng := &fakeEngine{}
	proc := GetProcess(logger.Nop(), eng)

	resp := proc(context.Background(), encodedJob(t, job.NewReconcile("ati")))

	assert.Equal(t, lmstfyx.JobRespStatusSuccess, resp.Action)
	assert.Equal(t, "ati", eng.runPlatform)
}

func TestGetProcessRoutesPublish(t *testing.T) {
	eng := &fakeEngine{}
	proc := GetProcess(logger.Nop(), eng)

	resp := proc(context.Background(), encodedJob(t, job.NewPublish("ati", "T2-7")))

	assert.Equal(t, lmstfyx.JobRespStatusSuccess, resp.Action)
	assert.Equal(t, []string{"T2-7"}, eng.published)
}

func TestGetProcessBuriesMalformedJob(t *testing.T) {
	proc := GetProcess(logger.Nop(), &fakeEngine{})

	resp := proc(context.Background(), &client.Job{ID: "job-1", Data: []byte("not json")})
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}

func TestGetProcessBuriesUnknownAction(t *testing.T) {
	proc := GetProcess(logger.Nop(), &fakeEngine{})

	j := job.NewReconcile("ati")
	j.Payload.Data.ActionType = "unknown_action"

	resp := proc(context.Background(), encodedJob(t, j))
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}

func TestGetProcessReleasesRetryableFailure(t *testing.T) {
	eng := &fakeEngine{runErr: errorutil.Retriable("feed unavailable")}
	proc := GetProcess(logger.Nop(), eng)

	resp := proc(context.Background(), encodedJob(t, job.NewReconcile("ati")))
	assert.Equal(t, lmstfyx.JobRespStatusRelease, resp.Action)
}

func TestGetProcessBuriesPermanentFailure(t *testing.T) {
	eng := &fakeEngine{publishErr: errors.New("order not listed")}
	proc := GetProcess(logger.Nop(), eng)

	resp := proc(context.Background(), encodedJob(t, job.NewPublish("ati", "T2-7")))
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}
