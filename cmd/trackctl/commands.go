package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"courier-tracking-service/internal/adapters/locationcheck"
	"courier-tracking-service/internal/adapters/repositories"
	"courier-tracking-service/internal/adapters/routing"
	"courier-tracking-service/internal/config"
	"courier-tracking-service/internal/maplink"
	"courier-tracking-service/internal/mapview"
	"courier-tracking-service/internal/platform/db"
	"courier-tracking-service/internal/platform/logger"
	"courier-tracking-service/internal/ports"
	"courier-tracking-service/internal/services/poller"
	"courier-tracking-service/internal/services/sampler"
	"courier-tracking-service/internal/services/tracking"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trackctl",
		Short:         "Courier live-tracking tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("log-level", "warn", "log level")

	rootCmd.AddCommand(newWatchCmd(), newAwaitLocationCmd(), newLinkCmd())
	return rootCmd
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.New(config.Get("APP_ENV", "development"), level)
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <order-id>",
		Short: "Follow an order's courier and route until interrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			zlog, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = zlog.Sync() }()

			sqlDB, err := db.Open(cfg.Database.URL)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			routes, err := routeProvider(cfg.Routing, zlog)
			if err != nil {
				return err
			}

			orders := repositories.NewPostgresOrderRepository(sqlDB, zlog)
			opts := mapview.DefaultOptions()
			opts.PaddingRatio = cfg.Tracking.BoundsPadding

			sess := tracking.NewSession(args[0], tracking.Deps{
				Orders:    orders,
				Locations: orders,
				Routes:    routes,
				Log:       zlog,
			}, opts)
			defer sess.Close()

			out := cmd.OutOrStdout()
			err = sess.Run(cmd.Context(), cfg.Tracking.RefreshInterval, func(snap tracking.Snapshot) {
				printSnapshot(out, snap)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	return cmd
}

func routeProvider(cfg config.RoutingConfig, zlog *zap.Logger) (ports.RouteProvider, error) {
	if cfg.Provider == "ors" {
		return routing.NewORSClient(cfg.ORSAPIKey, cfg.ORSBaseURL, cfg.ORSProfile, nil, zlog)
	}
	return routing.NewFunctionClient(cfg.FunctionURL, cfg.FunctionKey, zlog)
}

func printSnapshot(w io.Writer, snap tracking.Snapshot) {
	st := snap.Status
	fmt.Fprintf(w, "[%s] %s", snap.RefreshedAt.Format("15:04:05"), st.State)
	if snap.Courier != nil {
		fmt.Fprintf(w, " courier=%s", snap.Courier.Coordinates)
	}
	if st.ETA != "" {
		fmt.Fprintf(w, " eta=%s distance=%s", st.ETA, st.Distance)
	}
	if st.Traffic != nil {
		fmt.Fprintf(w, " traffic=%s", st.Traffic.Label)
	}
	if st.Message != "" {
		fmt.Fprintf(w, " %s", st.Message)
	}
	fmt.Fprintln(w)

	for i, t := range st.Turns {
		line := fmt.Sprintf("  %d. %s", i+1, t.Instruction)
		if t.StreetName != "" {
			line += " (" + t.StreetName + ")"
		}
		fmt.Fprintf(w, "%s  %s / %s\n", line, t.Distance, t.Duration)
	}
}

func newAwaitLocationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "await-location <phone>",
		Short: "Poll until the customer's shared location arrives.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zlog, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = zlog.Sync() }()

			checkURL, _ := cmd.Flags().GetString("url")
			interval, _ := cmd.Flags().GetDuration("interval")
			attempts, _ := cmd.Flags().GetInt("attempts")

			checker, closeFn, err := locationChecker(checkURL, zlog)
			if err != nil {
				return err
			}
			defer closeFn()

			p := poller.New(checker, interval, attempts, zlog)
			res, err := p.Run(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("no location after %d checks: %w", res.Attempts, err)
			}

			loc := res.Check.Location
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "location received after %d checks\n", res.Attempts)
			if loc != nil {
				fmt.Fprintf(out, "  %v,%v %s\n", loc.Lat, loc.Lng, loc.Address)
				if loc.URL != "" {
					fmt.Fprintf(out, "  %s\n", loc.URL)
				}
			}
			return nil
		},
	}

	defaults := config.DefaultTracking()
	cmd.Flags().String("url", config.Get("LOCATION_CHECK_URL", ""), "location-check endpoint (reads Postgres when empty)")
	cmd.Flags().Duration("interval", defaults.PollInterval, "time between checks")
	cmd.Flags().Int("attempts", defaults.PollMaxAttempts, "maximum number of checks")
	return cmd
}

func locationChecker(checkURL string, zlog *zap.Logger) (ports.LocationChecker, func(), error) {
	if checkURL != "" {
		return locationcheck.NewHTTPChecker(checkURL, zlog), func() {}, nil
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		return nil, nil, fmt.Errorf("either --url or DATABASE_URL is required")
	}
	sqlDB, err := db.Open(databaseURL)
	if err != nil {
		return nil, nil, err
	}
	shared := repositories.NewPostgresSharedLocationRepository(sqlDB, zlog)
	return locationcheck.NewStoreChecker(shared), func() { closeDB(sqlDB) }, nil
}

func closeDB(sqlDB *sql.DB) { _ = sqlDB.Close() }

func newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <maps-url>",
		Short: "Extract coordinates from a shared maps link.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := maplink.Extract(args[0])
			if !ok {
				return sampler.ErrLinkUnparseable
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lat=%v lng=%v\n", c.Lat, c.Lng)
			fmt.Fprintf(out, "navigate: %s\n", maplink.DirectionsURL(c))
			return nil
		},
	}
}
