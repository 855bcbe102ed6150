package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/elonfeng/shareradar/internal/config"
	"github.com/elonfeng/shareradar/internal/scheduler"
	"github.com/elonfeng/shareradar/internal/store"
	"github.com/elonfeng/shareradar/pkg/alert"
	"github.com/elonfeng/shareradar/pkg/server"
	"github.com/elonfeng/shareradar/pkg/source"
	"github.com/elonfeng/shareradar/pkg/track"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildArticleSource(cfg *config.Config) (source.ArticleSource, error) {
	if cfg.Articles.CMS.Enabled {
		if cfg.Articles.CMS.BaseURL == "" {
			return nil, fmt.Errorf("articles.cms.base_url is required when the cms source is enabled")
		}
		return source.NewCMS(cfg.Articles.CMS.BaseURL, cfg.Articles.CMS.Token, cfg.Articles.CMS.Limit), nil
	}
	if len(cfg.Articles.Static) > 0 {
		entries := make([]source.StaticArticle, len(cfg.Articles.Static))
		for i, a := range cfg.Articles.Static {
			entries[i] = source.StaticArticle{Title: a.Title, URL: a.URL}
		}
		return source.NewStatic(entries), nil
	}
	return nil, fmt.Errorf("no article source configured (enable articles.cms or list articles.static)")
}

func buildSignalSource(cfg *config.Config) (source.SignalSource, error) {
	var sources []source.SignalSource

	if cfg.Signals.Twitter.Enabled && cfg.Signals.Twitter.BearerToken != "" {
		sources = append(sources, source.NewTwitter(cfg.Signals.Twitter.BearerToken, ""))
	}
	if cfg.Signals.Nitter.Enabled {
		sources = append(sources, source.NewNitter(cfg.Signals.Nitter.NitterURL))
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no signal source configured (enable signals.twitter or signals.nitter)")
	}
	return source.NewMulti(sources...), nil
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func buildCoordinator(cfg *config.Config, db store.Store) (*track.Coordinator, error) {
	articles, err := buildArticleSource(cfg)
	if err != nil {
		return nil, err
	}
	signals, err := buildSignalSource(cfg)
	if err != nil {
		return nil, err
	}
	return track.NewCoordinator(db, articles, signals, buildAlertManager(cfg)), nil
}

func runCycle() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	coordinator, err := buildCoordinator(cfg, db)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := coordinator.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "examined %d articles, total score %d, %d alerts\n",
		res.ArticlesExamined, res.TotalScore, res.AlertsFired)
	if res.StoppedEarly {
		fmt.Fprintln(os.Stderr, "cycle stopped early")
	}
	return nil
}

func runStatus(jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	states, err := db.ArticleStates(context.Background())
	if err != nil {
		return fmt.Errorf("list article states: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(states)
	}

	if len(states) == 0 {
		fmt.Println("no signal history yet (try running a cycle first: shareradar cycle)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tRECORDS\tLAST ALERT\tARTICLE")
	for _, st := range states {
		lastAlert := "-"
		if st.LastAlertedAt != nil {
			lastAlert = fmt.Sprintf("%d at %s", st.LastAlertedScore, st.LastAlertedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", st.Score, st.Records, lastAlert, st.Key)
	}
	return w.Flush()
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	coordinator, err := buildCoordinator(cfg, db)
	if err != nil {
		return err
	}

	srv := server.New(db, coordinator, port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	coordinator, err := buildCoordinator(cfg, db)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(coordinator, cfg.Schedule.ParseCycleInterval())

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	srv := server.New(db, coordinator, port)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}
