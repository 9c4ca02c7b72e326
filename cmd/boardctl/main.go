// boardctl applies elemental mutations to a board-state snapshot file and
// renders or validates it.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/earthborne/ranger-board-go/internal/board"
	"github.com/earthborne/ranger-board-go/internal/board/catalog"
	"github.com/earthborne/ranger-board-go/internal/board/ops"
	"github.com/earthborne/ranger-board-go/internal/board/selector"
	"github.com/earthborne/ranger-board-go/internal/config"
	"github.com/earthborne/ranger-board-go/internal/encoding"
)

var version = "dev" // set via ldflags during build

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	engine *ops.Engine

	configPath  string
	statePath   string
	catalogPath string

	selID    string
	selTitle string
	selZone  string
}

func main() {
	a := &app{}
	root := a.rootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "boardctl",
		Short:         "Apply elemental updates to a board-state snapshot",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			logger, err := initLogger(cfg.Logging)
			if err != nil {
				return err
			}
			if a.statePath == "" {
				a.statePath = cfg.Paths.State
			}
			if a.catalogPath == "" {
				a.catalogPath = cfg.Paths.Catalog
			}
			policy, err := ops.ParsePolicy(cfg.Engine.TokenPolicy)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			a.engine = ops.NewEngine(policy, cfg.Engine.DefaultOwner, logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to configuration file")
	pf.StringVar(&a.statePath, "state", "", "path to the state snapshot file")
	pf.StringVar(&a.catalogPath, "catalog", "", "path to the card catalog file")
	pf.StringVar(&a.selID, "id", "", "select card by exact id")
	pf.StringVar(&a.selTitle, "title", "", "select card by fuzzy title")
	pf.StringVar(&a.selZone, "zone", "", "restrict selection to a dotted zone prefix")

	root.AddCommand(
		a.initCmd(),
		a.renderCmd(),
		a.validateCmd(),
		a.setStateCmd(),
		a.addTokensCmd(),
		a.moveCmd(),
		a.attachCmd(),
		a.detachCmd(),
		a.removeCmd(),
		a.discardCmd(),
		a.addCmd(),
		a.setFlagCmd(),
		a.readyAllCmd(),
		a.refreshCmd(),
		a.campCmd(),
		a.travelCmd(),
		a.spendEnergyCmd(),
	)
	return root
}

func (a *app) query() selector.Query {
	return selector.Query{ID: a.selID, Title: a.selTitle, Zone: a.selZone}
}

func (a *app) loadState() (*board.Map, error) {
	return encoding.LoadDocument(a.statePath)
}

func (a *app) saveState(doc *board.Map) error {
	return encoding.Save(a.statePath, doc)
}

// apply runs one mutation against the state file and writes the new
// snapshot back on success.
func (a *app) apply(fn func(doc *board.Map) (*board.Map, error)) error {
	doc, err := a.loadState()
	if err != nil {
		return err
	}
	next, err := fn(doc)
	if err != nil {
		return err
	}
	return a.saveState(next)
}

func (a *app) initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a fresh default board state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(a.statePath); err == nil {
					return fmt.Errorf("%s exists; use --force to overwrite", a.statePath)
				}
			}
			return a.saveState(board.NewDocument())
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing state file")
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the current snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadState()
			if err != nil {
				return err
			}
			var data []byte
			if format == "yaml" {
				data, err = encoding.MarshalYAML(doc)
			} else {
				data, err = encoding.MarshalJSON(doc)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(data), "\n"))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check structural invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadState()
			if err != nil {
				return err
			}
			ok, violations := ops.Validate(doc)
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}
			for _, v := range violations {
				fmt.Fprintln(cmd.OutOrStdout(), "-", v.Message)
			}
			return fmt.Errorf("%d violation(s)", len(violations))
		},
	}
}

func (a *app) setStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-state <state>",
		Short: "Rewrite a card's state label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				return a.engine.SetCardState(doc, a.query(), args[0])
			})
		},
	}
}

func (a *app) addTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-tokens <kind=delta>...",
		Short: "Adjust token counts on a card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deltas, err := parseDeltas(args)
			if err != nil {
				return err
			}
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				return a.engine.AddTokens(doc, a.query(), deltas)
			})
		},
	}
}

func (a *app) moveCmd() *cobra.Command {
	var dest string
	index := -1
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Relocate a card to another zone",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dest == "" {
				return fmt.Errorf("--dest is required")
			}
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				return a.engine.MoveCard(doc, a.query(), board.ParsePath(dest), index)
			})
		},
	}
	cmd.Flags().StringVar(&dest, "dest", "", "dotted destination zone path")
	cmd.Flags().IntVar(&index, "index", -1, "insertion index; negative appends")
	return cmd
}

func (a *app) attachCmd() *cobra.Command {
	var childJSON string
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach a child card to a selected host",
		RunE: func(cmd *cobra.Command, args []string) error {
			child, err := parseCardJSON(childJSON)
			if err != nil {
				return err
			}
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				next, id, err := a.engine.Attach(doc, child, a.query())
				if err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return next, err
			})
		},
	}
	cmd.Flags().StringVar(&childJSON, "child", "", "child card as a JSON object")
	return cmd
}

func (a *app) detachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detach <child-id>",
		Short: "Detach a child card and remove it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				return a.engine.Detach(doc, args[0])
			})
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <card-id>",
		Short: "Remove a card outright",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				return a.engine.RemoveCard(doc, args[0])
			})
		},
	}
}

func (a *app) discardCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Move a card to a discard pile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				return a.engine.DiscardCard(doc, a.query(), owner)
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "discard pile owner; empty uses the configured default")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	var (
		dest         string
		fallbackType string
		state        string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a card from the catalog to a zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.catalogPath == "" {
				return fmt.Errorf("no catalog configured")
			}
			catNode, err := encoding.Load(a.catalogPath)
			if err != nil {
				return err
			}
			cat, err := catalog.FromNode(catNode)
			if err != nil {
				return err
			}
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				next, id, err := catalog.AddFromSource(doc, cat, args[0], board.ParsePath(dest), fallbackType, state)
				if err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return next, err
			})
		},
	}
	cmd.Flags().StringVar(&dest, "dest", board.ZoneWithinReach, "dotted destination zone path")
	cmd.Flags().StringVar(&fallbackType, "type", "card", "card type used when the record has none")
	cmd.Flags().StringVar(&state, "card-state", board.StateReady, "initial card state")
	return cmd
}

func (a *app) setFlagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-flag <key> <true|false>",
		Short: "Set a boolean card field such as persistent or friendly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("value in %q: %w", args[1], err)
			}
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				return a.engine.SetFlag(doc, a.query(), args[0], v)
			})
		},
	}
}

func (a *app) readyAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready-all [zone]...",
		Short: "Ready every card in the given zones (default: the play area)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				return a.engine.ReadyAll(doc, args...)
			})
		},
	}
}

func (a *app) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reset current energy to printed values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(a.engine.RefreshEnergy)
		},
	}
}

func (a *app) campCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "camp",
		Short: "Ready the play area and refresh energy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(a.engine.Camp)
		},
	}
}

func (a *app) travelCmd() *cobra.Command {
	var locationJSON string
	cmd := &cobra.Command{
		Use:   "travel",
		Short: "Travel to a new location",
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := parseCardJSON(locationJSON)
			if err != nil {
				return err
			}
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				return a.engine.Travel(doc, location)
			})
		},
	}
	cmd.Flags().StringVar(&locationJSON, "location", "", "location card as a JSON object")
	return cmd
}

func (a *app) spendEnergyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spend-energy <aspect=amount>...",
		Short: "Spend current energy, failing on underflow",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amounts, err := parseDeltas(args)
			if err != nil {
				return err
			}
			return a.apply(func(doc *board.Map) (*board.Map, error) {
				return a.engine.SpendEnergy(doc, amounts)
			})
		},
	}
}

func parseDeltas(args []string) (map[string]int, error) {
	out := make(map[string]int, len(args))
	for _, arg := range args {
		kind, val, ok := strings.Cut(arg, "=")
		if !ok || kind == "" {
			return nil, fmt.Errorf("expected kind=amount, got %q", arg)
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("amount in %q: %w", arg, err)
		}
		out[kind] = n
	}
	return out, nil
}

func parseCardJSON(s string) (*board.Map, error) {
	if s == "" {
		return nil, fmt.Errorf("card JSON is required")
	}
	n, err := encoding.UnmarshalJSONTolerant([]byte(s))
	if err != nil {
		return nil, err
	}
	m, ok := n.(*board.Map)
	if !ok {
		return nil, fmt.Errorf("card must be a JSON object")
	}
	return m, nil
}

// initLogger builds the zap logger from configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
