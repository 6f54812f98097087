package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"keel/internal/driver"
	"keel/internal/ui"
)

type checkOutcome struct {
	results []*driver.CheckResult
	err     error
}

func runCheckDirWithUI(ctx context.Context, dir string, opts driver.CheckOptions, jobs int) ([]*driver.CheckResult, error) {
	files, err := driver.ListTreeFiles(dir)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.CheckDir(ctx, dir, optsCopy, jobs)
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
