package cli

import (
	"context"

	"github.com/charmbracelet/huh/spinner"
)

// RunSpinnerCtx runs an action with a spinner and context
func RunSpinnerCtx(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	var actionErr error

	err := spinner.New().
		Title("  " + title).
		Action(func() {
			actionErr = fn(ctx)
		}).
		Run()

	if err != nil {
		return err
	}
	return actionErr
}
