package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"namescan/internal/app"
	"namescan/internal/config"
	"namescan/pkg/contracts"
)

func main() {
	port := flag.Int("port", 0, "HTTP port (overrides configuration)")
	excelDir := flag.String("dir", "", "directory with Excel files to search (overrides configuration)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *excelDir != "" {
		cfg.Paths.ExcelDir = *excelDir
	}

	application, err := app.NewApplicationWithConfig(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s listening on http://localhost:%d\n", contracts.GetVersionString(), cfg.Server.Port)
	if err := application.Run(); err != nil {
		application.Logger.Error("application terminated", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
