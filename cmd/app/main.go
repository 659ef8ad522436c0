package main

import (
	"flag"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"interactive-image-viewer/internal/cloud"
	"interactive-image-viewer/internal/dirtree"
	"interactive-image-viewer/internal/gui"
	imgio "interactive-image-viewer/internal/io"
	"interactive-image-viewer/internal/recent"
	"interactive-image-viewer/internal/render"
	"interactive-image-viewer/internal/thumbs"
	"interactive-image-viewer/internal/viewer"
)

const (
	AppName = "Image Browser"
	AppID   = "com.example.interactive-image-viewer"
)

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	startDir := flag.String("dir", defaultStartDir(), "Directory to browse at startup")
	flag.Parse()

	logger := initLogger(*debugMode)
	logger.WithFields(logrus.Fields{
		"debug_mode": *debugMode,
		"start_dir":  *startDir,
	}).Info("Starting image browser")

	recentsPath := recentsFilePath()
	recents, err := recent.Load(recentsPath, recent.DefaultMaxItems)
	if err != nil {
		logger.WithField("error", err).Warn("Could not load recency list, starting empty")
		recents = recent.NewManager(recent.DefaultMaxItems)
	}

	loader := imgio.NewLoader(logger)
	pipeline := render.NewPipeline(logger)
	uploader := cloud.NewClient(cloud.FromEnv(), logger)

	session := viewer.NewSession(logger, loader, pipeline, recents, uploader)
	session.RecentsPath = recentsPath

	tree := dirtree.New(logger)
	cache := thumbs.NewCache(loader, thumbs.DefaultCapacity, logger)

	fyneApp := app.NewWithID(AppID)
	mainApp := gui.NewApplication(fyneApp, logger, session, tree, cache, *startDir)
	mainApp.ShowAndRun()

	stats := cache.Stats()
	logger.WithFields(logrus.Fields{
		"thumb_hits":      stats.Hits,
		"thumb_misses":    stats.Misses,
		"thumb_evictions": stats.Evictions,
	}).Info("Application shutting down")
	os.Exit(0)
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}

func defaultStartDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/"
	}
	return home
}

func recentsFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "recent.json"
	}
	return filepath.Join(dir, "interactive-image-viewer", "recent.json")
}
