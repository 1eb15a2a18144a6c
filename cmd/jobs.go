package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newRemindCmd(opts *rootOptions) *cobra.Command {
	var nowFlag string

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Выполнить один проход напоминаний (для внешнего cron)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now, err := parseNow(nowFlag)
			if err != nil {
				return err
			}

			a, cleanup, err := opts.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			a.Reminders.Execute(cmd.Context(), now)
			a.Logger.Info("Reminder pass finished for now=%s", now.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&nowFlag, "now", "", "момент прохода в RFC3339 (по умолчанию текущее время)")

	return cmd
}

func newDigestCmd(opts *rootOptions) *cobra.Command {
	var nowFlag string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Разослать владельцам дайджест записей на следующий день",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now, err := parseNow(nowFlag)
			if err != nil {
				return err
			}

			a, cleanup, err := opts.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			digestJob(a)(cmd.Context(), now)
			return nil
		},
	}
	cmd.Flags().StringVar(&nowFlag, "now", "", "момент рассылки в RFC3339 (по умолчанию текущее время)")

	return cmd
}
