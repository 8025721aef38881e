package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mongoRepo "github.com/Abdurahmanit/GroupProject/domain-market/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/config"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/generator"
)

func newSeedCmd() *cobra.Command {
	var (
		count int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert generated approved listings into MongoDB",
		Long: `Generate listings with a fixed seed and insert them as approved listings.
Connection settings come from MONGO_URI and MONGO_DATABASE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(appLogger)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := mongoRepo.Connect(ctx, cfg.MongoURI, appLogger)
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(ctx) }()

			db := client.Database(cfg.MongoDatabase)
			mongoRepo.EnsureIndexes(ctx, db, appLogger)
			repo := mongoRepo.NewListingRepository(db, appLogger)

			listings := generator.Generate(count, seed, generator.DefaultOptions(time.Now().UTC()))
			for i := range listings {
				l := listings[i]
				l.ID = ""
				if err := repo.Create(ctx, &l); err != nil {
					return fmt.Errorf("seed listing %s: %w", l.Domain, err)
				}
			}
			appLogger.Info("Seeded listings", zap.Int("count", len(listings)), zap.Uint64("seed", seed), zap.String("database", cfg.MongoDatabase))
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d listings\n", len(listings))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 500, "number of listings to insert")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "generator seed")
	return cmd
}
