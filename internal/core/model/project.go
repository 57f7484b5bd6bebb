package model

import "github.com/rs/xid"

type ProjectID string

func NewProjectID() ProjectID {
	return ProjectID(xid.New().String())
}

type Project struct {
	ID    ProjectID
	Title string
}
