package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/nutribot-app/nutribot/internal/api"
	"github.com/nutribot-app/nutribot/internal/app/game"
	"github.com/nutribot-app/nutribot/internal/infra/ai"
	"github.com/nutribot-app/nutribot/internal/infra/images"
	_ "github.com/nutribot-app/nutribot/internal/infra/metrics" // Register Prometheus metrics
	"github.com/nutribot-app/nutribot/internal/infra/sqlite"
)

// retentionDays bounds the reward ledger and notification history.
const retentionDays = 90

// Daemon is the core NutriBot runtime. It wires together all services.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Engine *game.Engine
	Server *api.Server

	scheduler gocron.Scheduler
	cancel    context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dir := cfg.Storage.Dir
	if dir == "" {
		dir = nutribotHome()
	}

	db, err := sqlite.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	notifier := game.NewNotificationService(db)
	engine := game.NewEngine(db,
		game.WithRewardLog(db),
		game.WithNotifications(notifier),
	)

	srv := api.NewServer(db, engine)
	if cfg.Server.Metrics {
		srv.EnableMetrics()
	}

	// Meal analyzer. Without a key the API still serves logs with
	// client-supplied nutrients.
	if cfg.AI.APIKey != "" {
		srv.SetAnalyzer(ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model))
	} else {
		fmt.Fprintln(os.Stderr, "WARNING: NUTRIBOT_AI_KEY not set, meal analysis disabled")
	}

	if cfg.Images.Enabled {
		up, err := images.NewUploader(context.Background(), images.Config{
			Endpoint:  cfg.Images.Endpoint,
			Region:    cfg.Images.Region,
			Bucket:    cfg.Images.Bucket,
			AccessKey: cfg.Images.AccessKey,
			SecretKey: cfg.Images.SecretKey,
			CDNBase:   cfg.Images.CDNBase,
		})
		if err != nil {
			return nil, fmt.Errorf("init image uploader: %w", err)
		}
		srv.SetUploader(up)
	}

	return &Daemon{
		Config: cfg,
		DB:     db,
		Engine: engine,
		Server: srv,
	}, nil
}

// Serve starts the HTTP server and background jobs, blocking until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.startJobs(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", d.Config.Server.Host, d.Config.Server.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // AI analysis can be slow
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if d.scheduler != nil {
			_ = d.scheduler.Shutdown()
		}
		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("NutriBot serving on http://%s\n", addr)
	if d.Config.Server.Metrics {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// startJobs schedules the background maintenance work: a post-midnight
// rollover tick so streak lapses and quest resets don't wait for the
// user's first request of the day, and a nightly retention sweep.
func (d *Daemon) startJobs(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	d.scheduler = sched

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() { d.rolloverAll(ctx) }),
	)
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 30, 0))),
		gocron.NewTask(func() { d.pruneOld(ctx) }),
	)
	if err != nil {
		return err
	}

	sched.Start()
	return nil
}

// rolloverAll touches every known user's state so the day rollover
// (quest regeneration, streak lapse, chest reset) applies on schedule.
func (d *Daemon) rolloverAll(ctx context.Context) {
	users, err := d.DB.ListStateUsers(ctx)
	if err != nil {
		log.Printf("[daemon] rollover: list users: %v", err)
		return
	}
	for _, uid := range users {
		if _, err := d.Engine.InitializeOrGetState(ctx, uid); err != nil {
			log.Printf("[daemon] rollover for %s: %v", uid, err)
		}
	}
}

func (d *Daemon) pruneOld(ctx context.Context) {
	before := time.Now().AddDate(0, 0, -retentionDays)
	if n, err := d.DB.PruneRewardEvents(ctx, before); err != nil {
		log.Printf("[daemon] prune rewards: %v", err)
	} else if n > 0 {
		log.Printf("[daemon] pruned %d reward events", n)
	}
	if n, err := d.DB.PruneNotifications(ctx, before); err != nil {
		log.Printf("[daemon] prune notifications: %v", err)
	} else if n > 0 {
		log.Printf("[daemon] pruned %d notifications", n)
	}
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.scheduler != nil {
		_ = d.scheduler.Shutdown()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
