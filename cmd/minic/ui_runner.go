package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"minic/internal/driver"
	"minic/internal/ui"
)

type runOutcome[T any] struct {
	result T
	err    error
}

// runWithUI runs fn in the background with opts.Observer feeding the
// progress view, and waits for both.
func runWithUI[T any](ctx context.Context, title string, files []string, opts driver.Options,
	fn func(context.Context, driver.Options) (T, error)) (T, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome[T], 1)

	prev := opts.Observer
	opts.Observer = func(ev driver.Event) {
		if prev != nil {
			prev(ev)
		}
		events <- ev
	}

	go func() {
		res, err := fn(ctx, opts)
		outcomeCh <- runOutcome[T]{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// просмотр мог закрыться досрочно (Ctrl-C): дочитываем события, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

func checkFilesWithUI(ctx context.Context, files []string, opts driver.Options, jobs int) (*driver.DirResult, error) {
	return runWithUI(ctx, "checking", files, opts, func(ctx context.Context, opts driver.Options) (*driver.DirResult, error) {
		return driver.CheckFiles(ctx, files, opts, jobs)
	})
}

func runFixturesWithUI(ctx context.Context, root string, modules, files []string, opts driver.Options, jobs int) (*driver.FixtureReport, error) {
	return runWithUI(ctx, "fixtures", files, opts, func(ctx context.Context, opts driver.Options) (*driver.FixtureReport, error) {
		return driver.RunFixtures(ctx, root, modules, opts, jobs)
	})
}
