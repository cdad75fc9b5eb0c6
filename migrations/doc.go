// Package migrations provides the public API for defining revisions in Go.
// It exports the revision types and the global registry that Go revision
// files register themselves with.
//
// Revisions that only run statements are usually written as YAML or SQL
// files in the revisions directory. A Go revision is useful when an action
// needs logic, for example a data backfill:
//
//	package revisions
//
//	import (
//		"context"
//
//		"github.com/toolsascode/revmig/migrations"
//	)
//
//	func init() {
//		migrations.MustRegister(&migrations.Revision{
//			ID:          "9c1e2f3a4b5d",
//			Parent:      "3f79f6dcc58d",
//			Description: "widen item_value",
//			Apply: migrations.ActionFunc(func(ctx context.Context, tx migrations.Tx) error {
//				_, err := tx.Exec(ctx, "ALTER TABLE line_items ALTER COLUMN item_value TYPE NUMERIC(18,4)")
//				return err
//			}),
//			Revert: migrations.Statements{
//				"ALTER TABLE line_items ALTER COLUMN item_value TYPE NUMERIC(12,2)",
//			},
//		})
//	}
package migrations
