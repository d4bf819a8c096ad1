// planseed загружает каталог тарифов из YAML в таблицу plan_limits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ignatzorin/gigmarket-backend/internal/config"
	"github.com/ignatzorin/gigmarket-backend/internal/db"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/gigmarket-backend/internal/logger"
	"github.com/ignatzorin/gigmarket-backend/internal/plancatalog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "planseed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		catalogPath string
		databaseURL string
		dryRun      bool
		migrate     bool
	)

	flagSet := pflag.NewFlagSet("planseed", pflag.ContinueOnError)
	flagSet.StringVarP(&catalogPath, "file", "f", "configs/plans.yaml", "путь к YAML-каталогу тарифов")
	flagSet.StringVar(&databaseURL, "database-url", "", "DSN PostgreSQL (по умолчанию из конфигурации)")
	flagSet.BoolVar(&dryRun, "dry-run", false, "только проверить каталог и вывести тарифы")
	flagSet.BoolVar(&migrate, "migrate", false, "применить миграции перед загрузкой")
	flagSet.BoolP("help", "h", false, "показать справку")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			flagSet.PrintDefaults()
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintln(os.Stdout, "Использование: planseed [флаги]")
		flagSet.PrintDefaults()
		return nil
	}

	catalog, err := plancatalog.Load(catalogPath)
	if err != nil {
		return err
	}
	printPlans(catalog.Entities())
	if dryRun {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.Env)
	if databaseURL == "" {
		databaseURL = cfg.DatabaseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewPostgres(ctx, databaseURL, db.PoolOptions{MaxOpenConns: 2})
	if err != nil {
		return err
	}
	defer conn.Close()

	if migrate {
		if _, err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	n, err := catalog.Apply(ctx, persistence.NewPlanRepositoryAdapter(conn))
	if err != nil {
		return err
	}
	logger.Log.WithField("plans", n).Info("каталог тарифов загружен")
	return nil
}

func printPlans(limits []*entity.PlanLimit) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ТАРИФ\tТИП\tКОНТАКТЫ\tОТКЛИКИ\tОТВЕТЫ\tПЕРИОД\tЦЕНА")
	for _, l := range limits {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			l.PlanTier, l.UserType,
			formatLimit(l.ContactViews), formatLimit(l.Proposals), formatLimit(l.GigResponses),
			l.ResetPeriod, l.Price)
	}
	_ = w.Flush()
}

func formatLimit(n int) string {
	if entity.IsUnlimited(n) {
		return "∞"
	}
	return fmt.Sprintf("%d", n)
}
