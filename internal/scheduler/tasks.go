package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskReportArchive = "reports.archive"

type ReportArchivePayload struct {
	AnalysisID string `json:"analysisId"`
}

func NewReportArchiveTask(payload ReportArchivePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportArchive, data), nil
}

func ParseReportArchivePayload(task *asynq.Task) (ReportArchivePayload, error) {
	var payload ReportArchivePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReportArchivePayload{}, err
	}
	return payload, nil
}
