package dispatch

import (
	"github.com/bornholm/montage/internal/core/model"
)

const JobTypeDispatch model.JobType = "deadline_dispatch"

type DispatchJob struct {
	id model.JobID
}

// ID implements [model.Job].
func (j *DispatchJob) ID() model.JobID {
	return j.id
}

// Type implements [model.Job].
func (j *DispatchJob) Type() model.JobType {
	return JobTypeDispatch
}

func NewDispatchJob() *DispatchJob {
	return &DispatchJob{
		id: model.NewJobID(),
	}
}

var _ model.Job = &DispatchJob{}
