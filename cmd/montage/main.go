package main

import (
	"github.com/bornholm/montage/internal/command"
	"github.com/bornholm/montage/internal/command/data"
	"github.com/bornholm/montage/internal/command/dispatch"
	"github.com/bornholm/montage/internal/command/jobs"
)

func main() {
	command.Main(
		"montage", "deadline notifications for project tasks",
		dispatch.Command(),
		jobs.Command(),
		data.Command(),
	)
}
