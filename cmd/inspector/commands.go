package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/GoPolymarket/yieldgate/internal/llm"
	"github.com/GoPolymarket/yieldgate/internal/market"
	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
	"github.com/GoPolymarket/yieldgate/internal/repository"
	"github.com/GoPolymarket/yieldgate/internal/service"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var errNoAuditStore = errors.New("no audit store configured: set database.dsn or redis.addr")

type inspector struct {
	stdout io.Writer
	stderr io.Writer
	load   func() (*config.Config, error)

	cfg      *config.Config
	services *service.Services
	redis    *repository.RedisClient
	usage    llm.UsageRepo
}

// run executes the inspector CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, load func() (*config.Config, error)) int {
	in := &inspector{stdout: stdout, stderr: stderr, load: load}
	root := in.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	in.close()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func (in *inspector) rootCommand() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:   "yieldgate-inspector",
		Short: "Inspect market data, AI providers and audit records",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			cfg, err := in.load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			in.cfg = cfg
			// Logs go to stderr so stdout stays machine-readable.
			logger.SetOutput(in.stderr, logLevel)
			if cfg.Redis.Addr != "" {
				client, err := repository.NewRedisClient(cfg)
				if err != nil {
					logger.Warn("redis unavailable, quota counters are process-local", "error", err)
				} else {
					in.redis = client
					in.usage = client
				}
			}
			if in.usage == nil {
				in.usage = service.NewProviderUsageStore()
			}
			in.services = service.NewServices(cfg, in.usage)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(in.marketCommand(), in.recommendCommand(), in.providersCommand(), in.auditCommand())
	return root
}

func (in *inspector) close() {
	if in.redis != nil {
		_ = in.redis.Close()
	}
}

func (in *inspector) marketCommand() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Print the current market analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw {
				snap, err := market.Collect(cmd.Context(), in.services.Market, market.AllMetrics)
				if err != nil {
					return err
				}
				return in.printJSON(snap)
			}
			return in.printJSON(in.services.Analysis.Analyze(cmd.Context()))
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw source snapshot instead of the analysis")
	return cmd
}

func (in *inspector) recommendCommand() *cobra.Command {
	var req model.RecommendationRequest
	var balance string
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate yield recommendations through the provider chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.PortfolioBalance = model.FlexString(balance)
			return in.printJSON(in.services.Recommendations.Generate(cmd.Context(), req))
		},
	}
	cmd.Flags().StringVar(&req.WalletAddress, "wallet", "", "wallet address to analyze")
	cmd.Flags().StringVar(&balance, "balance", "", "portfolio balance in ETH")
	cmd.Flags().StringVar(&req.RiskTolerance, "risk", "Medium", "risk tolerance (Low, Medium, High)")
	return cmd
}

func (in *inspector) providersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List configured AI providers and today's usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			active := make(map[string]bool)
			for _, name := range in.services.Recommendations.Providers() {
				active[name] = true
			}

			w := tabwriter.NewWriter(in.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tACTIVE\tUSED TODAY\tDAILY LIMIT")
			for _, name := range in.cfg.Providers.Order {
				pc, ok := in.cfg.Providers.Get(name)
				if !ok {
					fmt.Fprintf(w, "%s\tunknown\t-\t-\n", name)
					continue
				}
				used, err := in.usage.GetDailyUsage(cmd.Context(), name)
				usedText := humanize.Comma(int64(used))
				if err != nil {
					usedText = "n/a"
				}
				limit := "unlimited"
				if pc.DailyLimit > 0 {
					limit = humanize.Comma(int64(pc.DailyLimit))
				}
				fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", name, active[name], usedText, limit)
			}
			return w.Flush()
		},
	}
}

func (in *inspector) auditCommand() *cobra.Command {
	var (
		path  string
		limit int
		since time.Duration
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List persisted audit records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			lister, err := in.auditLister()
			if err != nil {
				return err
			}
			var from *time.Time
			if since > 0 {
				t := time.Now().Add(-since)
				from = &t
			}
			records, err := lister.List(cmd.Context(), path, limit, from, nil)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(in.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tMETHOD\tPATH\tSTATUS\tLATENCY\tSOURCE")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dms\t%s\n",
					humanize.Time(r.CreatedAt), r.Method, r.Path, r.StatusCode, r.LatencyMs, r.AISource)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "only records for this request path")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of records")
	cmd.Flags().DurationVar(&since, "since", 0, "only records newer than this age, e.g. 1h")
	return cmd
}

// auditLister prefers Postgres over the Redis list, matching the server's
// write order.
func (in *inspector) auditLister() (service.AuditLister, error) {
	if in.cfg.Database.DSN != "" {
		db, err := repository.NewDB(in.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		return repository.NewPostgresAuditRepo(db), nil
	}
	if in.redis != nil {
		return repository.NewRedisAuditRepo(in.redis, "", 0), nil
	}
	return nil, errNoAuditStore
}

func (in *inspector) printJSON(v any) error {
	enc := json.NewEncoder(in.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
