package cmd

import (
	"context"

	boardrender "github.com/bnema/taskflow-cli/internal/adapters/render/board"
	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *app) *cobra.Command {
	var output string
	var columnWidth int

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show tasks grouped by workflow stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			var columns []domain.Column
			fetch := func(ctx context.Context) error {
				var boardErr error
				columns, boardErr = app.tasks.Board(ctx)
				return boardErr
			}
			if err := withSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching board...", fetch); err != nil {
				return err
			}

			return writeOutput(cmd, format, columns, func() (string, error) {
				return app.renderBoard(columns, boardrender.RenderOptions{
					Now:         app.now(),
					ColumnWidth: columnWidth,
				})
			})
		},
	}

	addOutputFlag(cmd, &output)
	cmd.Flags().IntVar(&columnWidth, "column-width", 0, "Width of each stage column (default 28)")

	return cmd
}
