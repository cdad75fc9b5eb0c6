package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/toolsascode/revmig/internal/executor"
	"github.com/toolsascode/revmig/migrations"

	"github.com/spf13/cobra"
)

func (a *app) revisionCmd() *cobra.Command {
	revisionCmd := &cobra.Command{
		Use:   "revision",
		Short: "Manage revision files",
	}

	var (
		message string
		sqlPair bool
		id      string
	)
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Scaffold a new revision on top of the current head",
		Long: `new writes a revision file into the revisions directory. The new revision
revises the head of the loaded chain, or is the root when the directory is empty.
The database is not contacted.`,
		Example: `  revmig revision new -m "add Site Registry product code"
  revmig revision new -m "widen item_value" --sql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			reg, err := executor.NewLoader(cfg.Revisions.Dir, migrations.GlobalRegistry).Load()
			if err != nil {
				return err
			}
			chain, err := reg.Chain()
			if err != nil {
				return err
			}

			data := migrations.TemplateData{
				ID:          id,
				Description: message,
				CreatedAt:   time.Now().UTC(),
			}
			if data.ID == "" {
				data.ID = migrations.NewRevisionID()
			}
			if _, exists := chain.Get(data.ID); exists {
				return fmt.Errorf("revision %s already exists", data.ID)
			}
			if head := chain.Head(); head != nil {
				data.Revises = head.ID
			}

			if err := os.MkdirAll(cfg.Revisions.Dir, 0o755); err != nil {
				return fmt.Errorf("failed to create revisions directory: %w", err)
			}

			var written []string
			if sqlPair {
				up, down, err := migrations.RenderSQL(data)
				if err != nil {
					return err
				}
				upPath := filepath.Join(cfg.Revisions.Dir, data.FileBase()+".up.sql")
				downPath := filepath.Join(cfg.Revisions.Dir, data.FileBase()+".down.sql")
				if err := writeNewFile(downPath, down); err != nil {
					return err
				}
				if err := writeNewFile(upPath, up); err != nil {
					return err
				}
				written = append(written, upPath, downPath)
			} else {
				content, err := migrations.RenderYAML(data)
				if err != nil {
					return err
				}
				path := filepath.Join(cfg.Revisions.Dir, data.FileBase()+".yaml")
				if err := writeNewFile(path, content); err != nil {
					return err
				}
				written = append(written, path)
			}

			fmt.Fprintf(a.out, "Created revision %s (revises %s)\n", data.ID, displayRevision(data.Revises))
			for _, path := range written {
				fmt.Fprintf(a.out, "  %s\n", path)
			}
			return nil
		},
	}
	newCmd.Flags().StringVarP(&message, "message", "m", "", "Description of the revision")
	newCmd.Flags().BoolVar(&sqlPair, "sql", false, "Write an .up.sql/.down.sql pair instead of YAML")
	newCmd.Flags().StringVar(&id, "rev-id", "", "Use this revision id instead of a generated one")

	revisionCmd.AddCommand(newCmd)
	return revisionCmd
}

// writeNewFile refuses to overwrite an existing file
func writeNewFile(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
