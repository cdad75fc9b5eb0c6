package migrations_test

import (
	"context"
	"fmt"

	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/migrations"
)

func ExampleRegister() {
	reg := registry.NewInMemoryRegistry()
	for _, rev := range []*migrations.Revision{
		{
			ID:          "1344cb533815",
			Description: "create product codes",
			Apply:       migrations.Statements{"CREATE TABLE product_codes (code TEXT PRIMARY KEY)"},
			Revert:      migrations.Statements{"DROP TABLE product_codes"},
		},
		{
			ID:          "3f79f6dcc58d",
			Parent:      "1344cb533815",
			Description: "backfill product codes",
			Apply: migrations.ActionFunc(func(ctx context.Context, tx migrations.Tx) error {
				_, err := tx.Exec(ctx, "INSERT INTO product_codes (code) VALUES ($1)", "ESRA")
				return err
			}),
			Revert: migrations.Statements{"DELETE FROM product_codes WHERE code = 'ESRA'"},
		},
	} {
		if err := reg.Register(rev); err != nil {
			fmt.Println(err)
			return
		}
	}

	chain, err := reg.Chain()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(chain.Root().ID, "->", chain.Head().ID)
	// Output: 1344cb533815 -> 3f79f6dcc58d
}
