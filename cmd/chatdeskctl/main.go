package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"chatdesk/internal/config"
	"chatdesk/internal/database"
	"chatdesk/internal/events"
	"chatdesk/internal/services"
)

var (
	configPath string
	jsonOutput bool
	sessionID  string
	topicID    string

	cfg        *config.Config
	svc        *services.Services
	closeFns   []func() error
	keyringErr error
)

func defaultSession() string {
	if s := os.Getenv("CHATDESK_SESSION"); s != "" {
		return s
	}
	return "inbox"
}

var rootCmd = &cobra.Command{
	Use:           "chatdeskctl",
	Short:         "Headless client for chatdesk settings, messages and translations",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		db, err := database.Init(database.Config{Path: cfg.Database.Path, LogLevel: logger.Silent})
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			closeFns = append(closeFns, sqlDB.Close)
		}

		keys, err := services.OpenKeyring(cfg.Keyring)
		if err != nil {
			keyringErr = err
			log.Printf("keyring unavailable: %v", err)
		}

		svc, err = services.New(cfg, db, keys)
		if err != nil {
			return err
		}

		if cfg.Events.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.SubjectPrefix)
			if err != nil {
				return err
			}
			closeFns = append(closeFns, pub.Close)
			events.EnablePublisherEmitter(pub)
		}

		ctx := cmd.Context()
		if err := svc.Startup(ctx); err != nil {
			return err
		}
		return svc.Messages.SetActive(ctx, sessionID, topicID)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		for i := len(closeFns) - 1; i >= 0; i-- {
			if err := closeFns[i](); err != nil {
				log.Printf("close: %v", err)
			}
		}
		closeFns = nil
	},
}

func requireKeyring() error {
	if svc.Keyring == nil {
		return fmt.Errorf("keyring unavailable: %w", keyringErr)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to chatdesk.toml")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", defaultSession(), "chat session")
	rootCmd.PersistentFlags().StringVar(&topicID, "topic", "", "chat topic")

	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(titleCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
