package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/FloppaBotGo/internal/commands"
	"github.com/PancyStudios/FloppaBotGo/internal/events"
	"github.com/PancyStudios/FloppaBotGo/internal/tasks"
	"github.com/PancyStudios/FloppaBotGo/pkg/config"
	"github.com/PancyStudios/FloppaBotGo/pkg/database"
	"github.com/PancyStudios/FloppaBotGo/pkg/discord"
	"github.com/PancyStudios/FloppaBotGo/pkg/feed"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/PancyStudios/FloppaBotGo/pkg/mqtt"
	"github.com/PancyStudios/FloppaBotGo/pkg/scheduler"
	"github.com/PancyStudios/FloppaBotGo/pkg/web"
)

const mongoConnectTimeout = 10 * time.Second

// app owns every long-lived component and shuts them down in reverse order
type app struct {
	cfg *config.Config

	db        *database.Database
	store     database.Store
	mqtt      *mqtt.Client
	events    mqtt.Publisher
	discord   *discord.ExtendedClient
	web       *web.Server
	scheduler *scheduler.Scheduler

	shutdownOnce sync.Once
}

func newApp(cfg *config.Config) *app {
	return &app{cfg: cfg}
}

// start brings components up: store, MQTT, Discord, web, then the scheduler
func (a *app) start(ctx context.Context) error {
	a.openStore(ctx)

	if a.cfg.MQTTEnabled() {
		clientID := "floppabot"
		if !a.cfg.IsProd() {
			clientID = "floppabot_canary"
		}
		a.mqtt = mqtt.NewClient(mqtt.Options{
			Host:     a.cfg.MQTTHost,
			Port:     a.cfg.MQTTPort,
			Username: a.cfg.MQTTUser,
			Password: a.cfg.MQTTPassword,
			ClientID: clientID,
		})
		a.events = a.mqtt
	}

	client, err := discord.NewClient(a.cfg)
	if err != nil {
		return fmt.Errorf("create Discord client: %w", err)
	}
	a.discord = client

	deps := commands.Deps{Store: a.store, Events: a.events}
	if a.db != nil {
		deps.Database = a.db
	}
	commands.RegisterAll(client, deps)
	events.RegisterAll(client, a.store)

	if err := a.startWeb(); err != nil {
		return err
	}

	if err := client.Start(); err != nil {
		return fmt.Errorf("open Discord gateway: %w", err)
	}

	return a.startScheduler()
}

// openStore picks the store driver. A Mongo outage at startup is not fatal:
// the database reconnects in the background and queues writes meanwhile.
func (a *app) openStore(ctx context.Context) {
	if a.cfg.DatabaseDriver == config.DriverMemory {
		logger.Warn("Using the in-memory store, nothing will be persisted", "Main")
		a.store = database.NewMemoryStore()
		return
	}

	a.db = database.NewDatabase(a.cfg.MongoDBURL, a.cfg.DBName)
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	if err := a.db.Connect(connectCtx); err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
	}
	a.store = database.NewMongoStore(a.db)
}

func (a *app) startWeb() error {
	opts := web.Options{
		WebhookURL:        a.cfg.LogsWebServerHook,
		AllowedHosts:      a.cfg.AllowedHosts,
		APIToken:          a.cfg.APIToken,
		RequestsPerMinute: a.cfg.WebRateLimit,
		Bot:               a.discord,
		Settings:          a.store,
	}
	if a.db != nil {
		opts.Database = a.db
	}

	server, err := web.NewServer(opts)
	if err != nil {
		return fmt.Errorf("create web server: %w", err)
	}
	a.web = server
	server.StartAsync(a.cfg.Port)
	return nil
}

func (a *app) startScheduler() error {
	messenger := discord.NewMessenger(a.discord.Session, a.cfg.SendRate)

	poller := tasks.NewTikTokPoller(tasks.TikTokPollerOptions{
		Guilds:       a.store,
		Fetcher:      feed.NewFetcher(a.cfg.FeedTimeout),
		Messenger:    messenger,
		Events:       a.events,
		FeedHost:     a.cfg.FeedHost,
		FetchTimeout: a.cfg.FeedTimeout,
	})
	birthdays := tasks.NewBirthdayNotifier(a.store, a.store, messenger, a.events)

	a.scheduler = scheduler.New()
	if err := a.scheduler.Add(scheduler.Job{
		Name: "tiktok-feed",
		Spec: a.cfg.FeedSchedule(),
		Run:  poller.Run,
	}); err != nil {
		return err
	}
	if err := a.scheduler.Add(scheduler.Job{
		Name:       "birthdays",
		Spec:       a.cfg.BirthdaySchedule,
		RunOnStart: true,
		Run:        birthdays.Run,
	}); err != nil {
		return err
	}

	a.scheduler.Start()
	return nil
}

// shutdown stops the scheduler (waiting for running cycles), closes the
// Discord session, the web server, MQTT and Mongo. Safe to call more than once.
func (a *app) shutdown(ctx context.Context) {
	a.shutdownOnce.Do(func() {
		if a.scheduler != nil {
			if err := a.scheduler.Stop(ctx); err != nil {
				logger.Error(err.Error(), "Main")
			}
		}
		if a.discord != nil {
			if err := a.discord.Stop(); err != nil {
				logger.Error(fmt.Sprintf("Error closing Discord session: %v", err), "Main")
			}
		}
		if a.web != nil {
			if err := a.web.Shutdown(ctx); err != nil {
				logger.Error(fmt.Sprintf("Error stopping web server: %v", err), "Main")
			}
		}
		a.mqtt.Close()
		if a.db != nil {
			if err := a.db.Disconnect(ctx); err != nil {
				logger.Error(fmt.Sprintf("Error disconnecting database: %v", err), "Main")
			}
		}
		logger.System("Shutdown complete", "Main")
	})
}
