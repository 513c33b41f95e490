package domains

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"github.com/SKR-SG/ASP/internal/domains/job"
	"github.com/SKR-SG/ASP/pkg/errorutil"
	"github.com/SKR-SG/ASP/pkg/lmstfyx"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// GetProcess returns the core processing function injected into the
// processor. It decodes the envelope, routes by action type and maps the
// handler result onto a queue action: retryable errors are released for
// redelivery, permanent ones buried.
func GetProcess(log logger.Logger, eng Engine) lmstfyx.Proc {
	return func(ctx context.Context, lmstfyJob *client.Job) *lmstfyx.JobResp {
		startTime := time.Now()

		meta, err := parseJob(ctx, lmstfyJob, log)
		if err != nil {
			log.Errorf(ctx, "[GetProcess] parseJob failed: %v", err)
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}

		ctx = context.WithValue(ctx, "trace_id", meta.RequestID)
		ctx = context.WithValue(ctx, "action_type", meta.ActionType)
		ctx = context.WithValue(ctx, "platform", meta.Platform)

		log.Infof(ctx, "[GetProcess] Processing job: action_type=%s, request_id=%s, external_no=%s",
			meta.ActionType, meta.RequestID, meta.ExternalNo)

		handler, ok := HandlerMap[meta.ActionType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for action_type: %s", meta.ActionType)
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}

		var resp *lmstfyx.JobResp
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
					resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
				}
			}()

			resp = report(ctx, handler(ctx, eng, meta), log)
		}()

		duration := time.Since(startTime)
		log.Infof(ctx, "[GetProcess] Processing complete: action=%d, duration=%v", resp.Action, duration)

		return resp
	}
}

// parseJob decodes and validates the envelope.
func parseJob(ctx context.Context, lmstfyJob *client.Job, log logger.Logger) (*job.Meta, error) {
	var envelope job.Job
	if err := json.Unmarshal(lmstfyJob.Data, &envelope); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if envelope.Payload == nil || envelope.Payload.Data == nil {
		return nil, fmt.Errorf("invalid job structure: payload.data is nil")
	}

	data := envelope.Payload.Data
	if data.Platform == "" {
		return nil, fmt.Errorf("invalid job: platform is empty")
	}

	meta := &job.Meta{
		RequestID:  data.RequestID,
		ActionType: data.ActionType,
		Platform:   data.Platform,
		ExternalNo: data.ExternalNo,
	}
	if meta.RequestID == "" {
		meta.RequestID = uuid.New().String()
	}

	log.Debugf(ctx, "[parseJob] Parsed: action_type=%s, request_id=%s", meta.ActionType, meta.RequestID)
	return meta, nil
}

// report maps a handler error onto the queue action.
func report(ctx context.Context, err error, log logger.Logger) *lmstfyx.JobResp {
	if err == nil {
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess}
	}

	if errorutil.IsRetryable(err) || errorutil.IsRateLimited(err) {
		log.Warnf(ctx, "[report] Retryable failure, releasing: %v", err)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease}
	}

	log.Errorf(ctx, "[report] Permanent failure, burying: %v", err)
	return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
}
