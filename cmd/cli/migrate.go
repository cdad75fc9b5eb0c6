package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/toolsascode/revmig/internal/executor"
	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/internal/revision"

	"github.com/spf13/cobra"
)

func (a *app) upgradeCmd() *cobra.Command {
	var sqlOnly bool
	cmd := &cobra.Command{
		Use:   "upgrade [target]",
		Short: "Apply revisions up to target (default head)",
		Example: `  revmig upgrade
  revmig upgrade +1
  revmig upgrade 3f79 --sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMigrate(cmd, executor.DirectionUpgrade, targetArg(args, revision.Head), sqlOnly)
		},
	}
	cmd.Flags().BoolVar(&sqlOnly, "sql", false, "Print the statements that would run instead of running them")
	return cmd
}

func (a *app) downgradeCmd() *cobra.Command {
	var sqlOnly bool
	cmd := &cobra.Command{
		Use:   "downgrade [target]",
		Short: "Revert revisions down to target (default -1)",
		Example: `  revmig downgrade
  revmig downgrade base
  revmig downgrade 1344cb533815 --sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMigrate(cmd, executor.DirectionDowngrade, targetArg(args, "-1"), sqlOnly)
		},
	}
	cmd.Flags().BoolVar(&sqlOnly, "sql", false, "Print the statements that would run instead of running them")
	return cmd
}

func targetArg(args []string, defaultTarget string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultTarget
}

func (a *app) runMigrate(cmd *cobra.Command, direction executor.Direction, target string, sqlOnly bool) error {
	rt, err := a.open(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	report, err := rt.Executor.ExecuteSync(ctx, &executor.Request{
		Target:    target,
		Direction: direction,
		DryRun:    sqlOnly,
	})
	if err != nil {
		if report != nil {
			printSteps(a.out, report.Processed)
		}
		return err
	}

	if sqlOnly {
		chain, err := rt.Executor.Chain()
		if err != nil {
			return err
		}
		return printSQL(a.out, chain, report)
	}

	if len(report.Processed) == 0 {
		fmt.Fprintf(a.out, "Already at %s, nothing to do\n", displayRevision(report.Tip))
		return nil
	}
	printSteps(a.out, report.Processed)
	fmt.Fprintf(a.out, "%s complete: %s -> %s\n", capitalize(string(report.Direction)), displayRevision(report.From), displayRevision(report.Tip))
	return nil
}

func printSteps(w io.Writer, steps []executor.Step) {
	for _, step := range steps {
		fmt.Fprintf(w, "  %-8s %s", step.Status, step.Revision)
		if step.Description != "" {
			fmt.Fprintf(w, "  %s", step.Description)
		}
		if step.Duration > 0 {
			fmt.Fprintf(w, "  (%s)", step.Duration.Round(time.Millisecond))
		}
		fmt.Fprintln(w)
	}
}

// printSQL writes the statements of every planned revision. Actions written
// in Go cannot be rendered and are marked instead.
func printSQL(w io.Writer, chain *registry.Chain, report *executor.Report) error {
	if len(report.Processed) == 0 {
		fmt.Fprintf(w, "-- already at %s\n", displayRevision(report.Tip))
		return nil
	}
	for _, step := range report.Processed {
		rev, ok := chain.Get(step.Revision)
		if !ok {
			return fmt.Errorf("revision %s: %w", step.Revision, registry.ErrRevisionNotFound)
		}
		fmt.Fprintf(w, "-- %s %s", step.Phase, rev.ID)
		if rev.Description != "" {
			fmt.Fprintf(w, ": %s", rev.Description)
		}
		fmt.Fprintln(w)

		statements, ok := rev.ActionFor(step.Phase).(revision.Statements)
		if !ok {
			fmt.Fprintln(w, "-- (action defined in Go, not shown)")
			fmt.Fprintln(w)
			continue
		}
		for _, stmt := range statements {
			stmt = strings.TrimSpace(stmt)
			if !strings.HasSuffix(stmt, ";") {
				stmt += ";"
			}
			fmt.Fprintln(w, stmt)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (a *app) currentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current revision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			current, err := rt.Executor.Current(ctx)
			if err != nil {
				return err
			}
			chain, err := rt.Executor.Chain()
			if err != nil {
				return err
			}

			line := displayRevision(current)
			if head := chain.Head(); head != nil && head.ID == current {
				line += " (head)"
			}
			fmt.Fprintln(a.out, line)
			return nil
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List revisions newest first with their applied state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			entries, err := rt.Executor.History(ctx)
			if err != nil {
				return err
			}
			printHistory(a.out, entries)
			return nil
		},
	}
}

func printHistory(w io.Writer, entries []*executor.HistoryEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REVISION\tREVISES\tAPPLIED AT\tDESCRIPTION")
	for _, entry := range entries {
		id := entry.Revision
		if entry.IsHead {
			id += " (head)"
		}
		if entry.IsCurrent {
			id += " (current)"
		}
		appliedAt := "-"
		if entry.AppliedAt != nil {
			appliedAt = entry.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, displayRevision(entry.Parent), appliedAt, entry.Description)
	}
	_ = tw.Flush()
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the applied history against the revisions and report pending ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			if err := rt.Executor.Verify(ctx); err != nil {
				var driftErr *executor.DriftDetectedError
				if errors.As(err, &driftErr) {
					fmt.Fprintf(a.out, "Drift detected (%s) involving %s\n", driftErr.Kind, strings.Join(driftErr.Revisions, ", "))
				}
				return err
			}

			plan, err := rt.Executor.Plan(ctx, revision.Head)
			if err != nil {
				return err
			}
			if len(plan.Processed) == 0 {
				fmt.Fprintf(a.out, "OK: history is consistent, at %s\n", displayRevision(plan.Tip))
				return nil
			}
			fmt.Fprintf(a.out, "OK: history is consistent, %d revision(s) pending\n", len(plan.Processed))
			printSteps(a.out, plan.Processed)
			return nil
		},
	}
}

func displayRevision(id string) string {
	if id == "" {
		return revision.Base
	}
	return id
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
