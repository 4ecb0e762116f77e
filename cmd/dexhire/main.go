// Command dexhire is a headless marketplace client. The serve subcommand
// keeps the read views warm on a refresh loop and exposes Prometheus
// metrics; the remaining subcommands submit individual marketplace
// operations with a local keypair.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dexhire/dexhire-go/internal/cache"
	"github.com/dexhire/dexhire-go/internal/config"
	"github.com/dexhire/dexhire-go/internal/domain"
	"github.com/dexhire/dexhire-go/internal/ledger"
	"github.com/dexhire/dexhire-go/internal/marketplace"
	"github.com/dexhire/dexhire-go/internal/metrics"
	"github.com/dexhire/dexhire-go/internal/program"
	"github.com/dexhire/dexhire-go/internal/query"
	"github.com/dexhire/dexhire-go/internal/txbuilder"
	"github.com/dexhire/dexhire-go/internal/wallet"
)

const usage = `usage: dexhire [-config path] [-versioned] <command> [args]

commands:
  serve                       run the view refresh loop
  client-profile create|update|delete
  freelancer-profile create|update|delete
  project create|fund|approve|submit-work|complete
  proposal submit|respond|approve-work
`

// client bundles the wired services a subcommand can draw on.
type client struct {
	cfg       config.Config
	logger    *slog.Logger
	programID solana.PublicKey
	chain     *ledger.RPC
	identity  wallet.Identity
	store     *cache.Store
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	queries   *query.Service
	market    *marketplace.Service
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "dexhire:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("dexhire", flag.ContinueOnError)
	configPath := flags.String("config", "dexhire.yaml", "path to config file")
	versioned := flags.Bool("versioned", false, "submit v0 transaction envelopes")
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("a command is required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := wire(ctx, cfg, logger, *versioned)
	if err != nil {
		return err
	}

	command, rest := flags.Arg(0), flags.Args()[1:]
	switch command {
	case "serve":
		return c.serve(ctx)
	case "client-profile":
		return c.profileCommand(ctx, rest, true)
	case "freelancer-profile":
		return c.profileCommand(ctx, rest, false)
	case "project":
		return c.projectCommand(ctx, rest)
	case "proposal":
		return c.proposalCommand(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func wire(ctx context.Context, cfg config.Config, logger *slog.Logger, versioned bool) (*client, error) {
	programID, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("parse program id %q: %w", cfg.ProgramID, err)
	}

	chain, err := ledger.NewRPC(ledger.RPCConfig{
		Endpoint:   cfg.RPCEndpoint,
		ProgramID:  programID,
		Commitment: rpc.CommitmentType(cfg.Commitment),
	}, logger)
	if err != nil {
		return nil, err
	}

	if cfg.KeypairPath == "" {
		return nil, errors.New("keypair_path is required for a headless session")
	}
	session, err := wallet.NewKeypairSession(cfg.KeypairPath, cfg.RPCEndpoint)
	if err != nil {
		return nil, err
	}
	orchestrator := wallet.NewOrchestrator(session, session, logger)

	identity, err := orchestrator.ResolveIdentity(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("identity resolved", "pubkey", identity.PublicKey.String())

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	store := cache.NewStore()
	queries := query.New(chain, programID, logger, m)

	opts := []marketplace.Option{marketplace.WithMetrics(m)}
	if versioned {
		opts = append(opts, marketplace.WithVersionedEnvelope())
	}
	market := marketplace.New(programID, txbuilder.New(chain), orchestrator, store, logger, opts...)

	return &client{
		cfg:       cfg,
		logger:    logger,
		programID: programID,
		chain:     chain,
		identity:  identity,
		store:     store,
		registry:  registry,
		metrics:   m,
		queries:   queries,
		market:    market,
	}, nil
}

// ============================================================================
// serve
// ============================================================================

func (c *client) serve(ctx context.Context) error {
	refresher := cache.NewRefresher(c.store, c.cfg.RefreshInterval, c.logger)
	owner := c.identity.PublicKey
	refresher.Register(cache.KeyProjects, func(ctx context.Context) (any, error) {
		return c.queries.AllPublicProjects(ctx)
	})
	refresher.Register(cache.KeyMyProjects, func(ctx context.Context) (any, error) {
		return c.queries.MyProjects(ctx, owner)
	})
	refresher.Register(cache.KeyOpenProjects, func(ctx context.Context) (any, error) {
		return c.queries.OpenProjects(ctx)
	})
	refresher.Register(cache.KeyProposals, func(ctx context.Context) (any, error) {
		return c.queries.MyProposals(ctx, owner)
	})
	refresher.Register(cache.KeyProfile, func(ctx context.Context) (any, error) {
		return c.queries.ProfileByOwner(ctx, owner)
	})

	if c.cfg.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: c.cfg.MetricsListen, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				c.logger.Error("metrics server", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		c.logger.Info("metrics listening", "addr", c.cfg.MetricsListen)
	}

	c.logger.Info("refresh loop starting", "interval", c.cfg.RefreshInterval.String())
	if err := refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	c.logger.Info("shutting down")
	return nil
}

// ============================================================================
// profile commands
// ============================================================================

func (c *client) profileCommand(ctx context.Context, args []string, isClient bool) error {
	if len(args) == 0 {
		return errors.New("profile command requires create, update or delete")
	}
	flags := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := flags.String("name", "", "display name")
	email := flags.String("email", "", "contact email")
	bio := flags.String("bio", "", "short bio")
	country := flags.String("country", "", "country")
	linkedin := flags.String("linkedin", "", "linkedin url")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	var sig solana.Signature
	var err error
	switch args[0] {
	case "create":
		if *name == "" || *email == "" {
			return errors.New("create requires -name and -email")
		}
		if isClient {
			sig, err = c.market.CreateClientProfile(ctx, *name, *email)
		} else {
			sig, err = c.market.CreateFreelancerProfile(ctx, *name, *email)
		}
	case "update":
		updateArgs := program.ProfileArgs{
			Name:      *name,
			Email:     *email,
			Bio:       *bio,
			Country:   *country,
			Linkedin:  *linkedin,
			Authority: c.identity.PublicKey,
		}
		if isClient {
			sig, err = c.market.UpdateClientProfile(ctx, updateArgs)
		} else {
			sig, err = c.market.UpdateFreelancerProfile(ctx, updateArgs)
		}
	case "delete":
		if isClient {
			sig, err = c.market.DeleteClientProfile(ctx)
		} else {
			sig, err = c.market.DeleteFreelancerProfile(ctx)
		}
	default:
		return fmt.Errorf("unknown profile subcommand %q", args[0])
	}
	return report(sig, err)
}

// ============================================================================
// project commands
// ============================================================================

func (c *client) projectCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("project command requires a subcommand")
	}
	flags := flag.NewFlagSet("project", flag.ContinueOnError)
	name := flags.String("name", "", "project name")
	about := flags.String("about", "", "project description")
	price := flags.Uint64("price", 0, "budget in lamports")
	deadlineDays := flags.Int("deadline-days", 30, "days until deadline")
	address := flags.String("address", "", "project account address")
	vault := flags.String("vault", "", "vault account address")
	creator := flags.String("creator", "", "creator wallet address")
	lamports := flags.Uint64("lamports", 0, "amount to deposit")
	workLink := flags.String("work-link", "", "submitted work url")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	var sig solana.Signature
	var err error
	switch args[0] {
	case "create":
		if *name == "" {
			return errors.New("create requires -name")
		}
		deadline := time.Now().AddDate(0, 0, *deadlineDays).Unix()
		sig, err = c.market.CreateProject(ctx, *name, *about, *price, deadline)
	case "fund":
		var project, vaultKey solana.PublicKey
		if project, err = parseKey(*address, "-address"); err != nil {
			return err
		}
		if vaultKey, err = parseKey(*vault, "-vault"); err != nil {
			return err
		}
		sig, err = c.market.FundProject(ctx, *lamports, project, vaultKey)
	case "approve":
		if *name == "" {
			return errors.New("approve requires -name")
		}
		sig, err = c.market.ApproveProject(ctx, *name)
	case "submit-work":
		var project solana.PublicKey
		if project, err = parseKey(*address, "-address"); err != nil {
			return err
		}
		if *workLink == "" {
			return errors.New("submit-work requires -work-link")
		}
		sig, err = c.market.SubmitWork(ctx, project, *workLink)
	case "complete":
		var project, creatorKey solana.PublicKey
		if project, err = parseKey(*address, "-address"); err != nil {
			return err
		}
		if creatorKey, err = parseKey(*creator, "-creator"); err != nil {
			return err
		}
		if *name == "" {
			return errors.New("complete requires -name")
		}
		sig, err = c.market.CompleteProject(ctx, project, *name, creatorKey)
	default:
		return fmt.Errorf("unknown project subcommand %q", args[0])
	}
	return report(sig, err)
}

// ============================================================================
// proposal commands
// ============================================================================

func (c *client) proposalCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("proposal command requires a subcommand")
	}
	flags := flag.NewFlagSet("proposal", flag.ContinueOnError)
	project := flags.String("project", "", "project account address")
	proposal := flags.String("proposal", "", "proposal account address")
	freelancerProfile := flags.String("freelancer-profile", "", "freelancer profile address")
	vault := flags.String("vault", "", "vault account address")
	message := flags.String("message", "", "proposal or response message")
	accept := flags.Bool("accept", false, "accept rather than reject")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	var sig solana.Signature
	var err error
	switch args[0] {
	case "submit":
		var projectKey solana.PublicKey
		if projectKey, err = parseKey(*project, "-project"); err != nil {
			return err
		}
		var view domain.ProjectView
		if view, err = c.findProject(ctx, projectKey); err != nil {
			return err
		}
		sig, err = c.market.SubmitProposal(ctx, view, *message)
	case "respond":
		keys, keyErr := parseKeys(map[string]string{
			"-proposal":           *proposal,
			"-project":            *project,
			"-freelancer-profile": *freelancerProfile,
		})
		if keyErr != nil {
			return keyErr
		}
		sig, err = c.market.RespondToProposal(ctx,
			keys["-proposal"], keys["-project"], keys["-freelancer-profile"],
			*accept, *message)
	case "approve-work":
		keys, keyErr := parseKeys(map[string]string{
			"-proposal":           *proposal,
			"-project":            *project,
			"-freelancer-profile": *freelancerProfile,
			"-vault":              *vault,
		})
		if keyErr != nil {
			return keyErr
		}
		sig, err = c.market.ApproveWorkAndPay(ctx,
			keys["-project"], keys["-proposal"], keys["-freelancer-profile"], keys["-vault"])
	default:
		return fmt.Errorf("unknown proposal subcommand %q", args[0])
	}
	return report(sig, err)
}

// findProject locates a project view by account address so the submit gate
// can see its derived status.
func (c *client) findProject(ctx context.Context, address solana.PublicKey) (domain.ProjectView, error) {
	views, err := c.queries.AllPublicProjects(ctx)
	if err != nil {
		return domain.ProjectView{}, err
	}
	for _, v := range views {
		if v.Address.Equals(address) {
			return v, nil
		}
	}
	return domain.ProjectView{}, fmt.Errorf("project %s not found", address)
}

func parseKey(value, flagName string) (solana.PublicKey, error) {
	if value == "" {
		return solana.PublicKey{}, fmt.Errorf("%s is required", flagName)
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("parse %s: %w", flagName, err)
	}
	return key, nil
}

func parseKeys(values map[string]string) (map[string]solana.PublicKey, error) {
	keys := make(map[string]solana.PublicKey, len(values))
	for flagName, value := range values {
		key, err := parseKey(value, flagName)
		if err != nil {
			return nil, err
		}
		keys[flagName] = key
	}
	return keys, nil
}

func report(sig solana.Signature, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(sig.String())
	return nil
}
