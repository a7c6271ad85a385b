package gasdb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/chainsafe/ethgas/pkg/history"
	mghelper "github.com/chainsafe/ethgas/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if err := mghelper.CreateSchema(ctx, db, (*history.SampleDao)(nil)); err != nil {
				return err
			}
			return mghelper.CreateModelIndexes(ctx, db, (*history.SampleDao)(nil), "network", "timestamp")
		},
		func(ctx context.Context, db *bun.DB) error {
			if err := mghelper.DropModelIndexes(ctx, db, (*history.SampleDao)(nil), "network", "timestamp"); err != nil {
				return err
			}
			return mghelper.DropTables(ctx, db, (*history.SampleDao)(nil))
		},
	)
}
