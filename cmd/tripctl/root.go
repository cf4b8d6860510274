package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey-alix/trip-planner-app/internal/appconf"
	"github.com/corey-alix/trip-planner-app/internal/idgen"
	"github.com/corey-alix/trip-planner-app/internal/kvstore"
	"github.com/corey-alix/trip-planner-app/internal/logging"
	"github.com/corey-alix/trip-planner-app/internal/planner"
	"github.com/corey-alix/trip-planner-app/internal/waypoint"
)

// session is the state shared by every subcommand for one invocation.
type session struct {
	loadConfig func() (appconf.Config, error)

	storeBackend string
	storePath    string
	timezone     string
	verbose      bool

	logger  *slog.Logger
	kv      kvstore.Store
	planner *planner.Planner
}

// run executes one command line and always releases the store.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, loadConfig func() (appconf.Config, error)) error {
	s := &session{loadConfig: loadConfig}
	cmd := newRootCmd(s)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if closeErr := s.close(); err == nil {
		err = closeErr
	}
	return err
}

func newRootCmd(s *session) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tripctl",
		Short:         "Inspect and move the saved trip",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.storeBackend, "store", "", "Store backend (memory|sqlite|redis)")
	rootCmd.PersistentFlags().StringVar(&s.storePath, "store-path", "", "SQLite database file")
	rootCmd.PersistentFlags().StringVar(&s.timezone, "timezone", "", "IANA time zone for day labels")
	rootCmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newExportCmd(s), newImportCmd(s), newShowCmd(s), newKeysCmd(s))
	return rootCmd
}

func (s *session) open(cmd *cobra.Command) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("store") {
		cfg.StoreBackend = s.storeBackend
	}
	if cmd.Flags().Changed("store-path") {
		cfg.StorePath = s.storePath
	}
	if cmd.Flags().Changed("timezone") {
		cfg.Timezone = s.timezone
	}

	level := slog.LevelWarn
	if s.verbose {
		level = slog.LevelDebug
	}
	s.logger = logging.NewTextLogger(cmd.ErrOrStderr(), level)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	// Timestamps are parsed as wall-clock times in time.Local.
	time.Local = loc

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s.kv, err = kvstore.Open(ctx, cfg, s.logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	ids, err := idgen.NewSnowflake(cfg.SnowflakeNode)
	if err != nil {
		return err
	}

	s.planner = planner.New(planner.Config{
		Store:    waypoint.NewStore(s.kv, ids, s.logger),
		KV:       s.kv,
		Location: loc,
		Logger:   s.logger,
	})
	return s.planner.Load(ctx)
}

func (s *session) close() error {
	if s.kv == nil {
		return nil
	}
	err := s.kv.Close()
	s.kv = nil
	return err
}
