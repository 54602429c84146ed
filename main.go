package main

import (
	"context"
	"embed"
	"log"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"

	"chatdesk/internal/config"
	"chatdesk/internal/database"
	"chatdesk/internal/events"
	"chatdesk/internal/services"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Println("Error loading config:", err)
		return
	}

	db, err := database.Init(database.Config{
		Path:     cfg.Database.Path,
		LogLevel: logger.Info,
	})
	if err != nil {
		log.Println("Error opening database:", err)
		return
	}

	keyringService, err := services.OpenKeyring(cfg.Keyring)
	if err != nil {
		log.Println("Error opening keyring:", err)
		return
	}

	svc, err := services.New(cfg, db, keyringService)
	if err != nil {
		log.Println("Error creating services:", err)
		return
	}

	app := NewApp(svc)
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	events.EnableRuntimeEmitter()

	err = wails.Run(&options.App{
		Title:  "chatdesk",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "chatdesk",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			app.startup(ctx)
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
