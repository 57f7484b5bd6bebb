package model

import (
	"github.com/rs/xid"
)

type JobID string

func NewJobID() JobID {
	return JobID(xid.New().String())
}

type JobType string

type Job interface {
	ID() JobID
	Type() JobType
}
