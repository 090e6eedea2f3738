package main

import (
	"context"
	"flag"
	"log"
	"os"

	"BuffettIndicator/internal/di"
	"BuffettIndicator/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path (missing file means defaults)")
	serve := flag.Bool("serve", false, "serve the indicator over HTTP instead of printing it once")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Printf("config load failed: %v", err)
		os.Exit(1)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Printf("app initialization failed: %v", err)
		os.Exit(1)
	}

	code := 0
	if *serve {
		if err := app.Serve(); err != nil {
			log.Printf("app error: %v", err)
			code = 1
		}
	} else {
		code = app.RunOnce(context.Background(), os.Stdout)
	}

	_ = app.Close()
	os.Exit(code)
}
