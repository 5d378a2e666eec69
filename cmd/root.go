package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// annotationSessionOptional marks commands that still run when the stored
// session cannot be restored.
const annotationSessionOptional = "taskflow/session-optional"

// annotationStandalone marks commands that run without the wired app.
const annotationStandalone = "taskflow/standalone"

func Execute(ctx context.Context) error {
	rootCmd, closeApp := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := closeApp(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func newRootCmd() (*cobra.Command, func(context.Context) error) {
	rootCmd := &cobra.Command{
		Use:           "tf",
		Short:         "Taskflow CLI (tf): manage workflow tasks from the terminal",
		Long:          "tf talks to a Taskflow API: sign in, list and edit tasks, move them between workflow stages and view the board.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, wireErr := wireApp(context.Background())

	// Commands stay registered when wiring fails; the error surfaces on use.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if hasAnnotation(cmd, annotationStandalone) {
			return nil
		}
		if wireErr != nil {
			return wireErr
		}
		return restoreSession(cmd, app)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAuthCmd(app),
		newTaskCmd(app),
		newBoardCmd(app),
	)

	if wireErr != nil {
		return rootCmd, func(context.Context) error { return nil }
	}
	return rootCmd, app.Close
}

func restoreSession(cmd *cobra.Command, app *app) error {
	if _, err := app.auth.Restore(cmd.Context()); err != nil {
		if hasAnnotation(cmd, annotationSessionOptional) {
			app.logger.Warn("restore session", "command", cmd.CommandPath(), "error", err)
			return nil
		}
		return fmt.Errorf("restore session: %w", err)
	}
	return nil
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[key]; ok {
			return true
		}
	}
	return false
}
