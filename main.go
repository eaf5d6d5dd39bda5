package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PIN-11-07/Turboo/internal/auth"
	"github.com/PIN-11-07/Turboo/internal/backend"
	"github.com/PIN-11-07/Turboo/internal/config"
	"github.com/PIN-11-07/Turboo/internal/eventbus"
	"github.com/PIN-11-07/Turboo/internal/feed"
	"github.com/PIN-11-07/Turboo/internal/listings"
	"github.com/PIN-11-07/Turboo/internal/profile"
	"github.com/PIN-11-07/Turboo/internal/ui"
)

func main() {
	// Parse command line arguments
	var configPath, logPath, source string
	flag.StringVar(&configPath, "config", "", "Path to the config file (default: user config dir)")
	flag.StringVar(&logPath, "log", "", "Path to the log file")
	flag.StringVar(&source, "source", "", "Feed source: rest or postgres")
	flag.Parse()

	// Set up logging
	if logPath == "" {
		logPath = config.LogPath()
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		log.Printf("Could not create log directory: %v", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := config.LoadDotEnv(".env", filepath.Join(config.Dir(), ".env")); err != nil {
		log.Printf("Could not load .env: %v", err)
	}

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	// Load configuration
	configSvc := config.NewConfigServiceWithBus(configPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if source != "" {
		cfg.Feed.Source = strings.ToLower(strings.TrimSpace(source))
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	// Backend client; requests carry the signed-in user's token when there is one
	var authSvc *auth.Service
	api, err := backend.NewClient(cfg.Backend.URL, cfg.Backend.AnonKey,
		backend.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		backend.WithTokenSource(func() string { return authSvc.AccessToken() }),
	)
	if err != nil {
		fmt.Printf("Error creating backend client: %v\n", err)
		os.Exit(1)
	}

	authSvc = auth.NewService(auth.NewClient(api), auth.NewFileStore(config.SessionPath()), bus)
	if session, err := authSvc.Restore(); err != nil {
		log.Printf("Could not restore session: %v", err)
	} else if session != nil {
		log.Printf("Restored session for %s", session.User.Email)
	}

	// Listing sources
	rest := listings.NewRESTSource(api)
	var fetcher feed.Fetcher = rest
	if cfg.Feed.Source == config.SourcePostgres {
		pg, err := listings.OpenPostgres(ctx, cfg.Backend.DatabaseURL)
		if err != nil {
			fmt.Printf("Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		defer pg.Close()
		fetcher = pg
	}
	log.Printf("Feed source: %s, page size %d", cfg.Feed.Source, cfg.Feed.PageSize)

	listingFeed := feed.New(fetcher, feed.WithPageSize(cfg.Feed.PageSize), feed.WithBus(bus))

	// Create UI model
	uiModel := ui.NewModel(ctx, bus, cfg, ui.Services{
		Feed:      listingFeed,
		Details:   rest,
		Sessions:  authSvc,
		Publisher: listings.NewPublisher(rest, bus),
		Profiles:  profile.NewLoader(authSvc, profile.NewAvatars(api), rest),
	})

	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	// Forward domain events to the UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forwardEvent := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventSessionChanged,
		eventbus.EventListingPublished,
		eventbus.EventError,
	} {
		bus.Subscribe(t, forwardEvent)
	}
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	// Run the UI
	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}
