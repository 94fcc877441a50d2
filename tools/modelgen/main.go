// Command modelgen regenerates internal/adapter/repo/gorm/model from a migrated database.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// JSON columns are decoded by the repositories, so the generator keeps them opaque.
var fieldOverrides = map[string][]gen.ModelOpt{
	"players": {
		gen.FieldType("breakthrough_history_json", "string"),
	},
	"progression_events": {
		gen.FieldType("payload", "[]byte"),
	},
}

func main() {
	var dsn, out string
	flag.StringVar(&dsn, "dsn", os.Getenv("TUTIEN_DB_DSN"), "postgres dsn of a migrated database")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if dsn == "" {
		logger.Error("missing -dsn or TUTIEN_DB_DSN")
		os.Exit(2)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("open postgres", "err", err)
		os.Exit(1)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:       out,
		ModelPkgPath:  "model",
		Mode:          gen.WithoutContext | gen.WithDefaultQuery,
		FieldNullable: true,
	})
	g.UseDB(db)
	for _, table := range []string{"players", "progression_events"} {
		g.ApplyBasic(g.GenerateModel(table, fieldOverrides[table]...))
	}
	g.Execute()

	fmt.Printf("generated %d gorm models at %s\n", len(fieldOverrides), out)
}
