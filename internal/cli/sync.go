package cli

import (
	"fmt"
	"path/filepath"

	"plantdeck/internal/gitrepo"

	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	var (
		message string
		push    bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Snapshot the workspace to git (commit, optionally pull --rebase and push)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			path, err := s.WriteSnapshot(db)
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx := cmd.Context()
			st, err := gitrepo.GetStatus(ctx, s.Dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !st.IsRepo {
				return writeErr(cmd, fmt.Errorf("workspace %s is not inside a git repository (git init it first)", s.Dir))
			}

			committed, err := gitrepo.CommitSnapshot(ctx, s.Dir, []string{filepath.Base(path)}, message)
			if err != nil {
				return writeErr(cmd, err)
			}

			pushed := false
			if push {
				if err := gitrepo.Push(ctx, s.Dir); err != nil {
					if !gitrepo.IsNonFastForwardPushErr(err) {
						return writeErr(cmd, err)
					}
					// Remote moved; rebase onto it and retry once.
					if err := gitrepo.PullRebase(ctx, s.Dir); err != nil {
						return writeErr(cmd, err)
					}
					if err := gitrepo.Push(ctx, s.Dir); err != nil {
						return writeErr(cmd, err)
					}
				}
				pushed = true
				st, _ = gitrepo.GetStatus(ctx, s.Dir)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"snapshot":  path,
					"committed": committed,
					"pushed":    pushed,
					"git":       st,
				},
			})
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "Commit message (default: timestamped snapshot message)")
	cmd.Flags().BoolVar(&push, "push", false, "Push after committing (pull --rebase + retry on rejection)")

	return cmd
}
