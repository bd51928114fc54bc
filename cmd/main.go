// FilePath: server/hub/cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/airx/beds/server/hub/docs"
	"github.com/airx/beds/server/hub/internal/config"
	"github.com/airx/beds/server/hub/internal/server"
	tm "github.com/buger/goterm"
	nuts "github.com/vaudience/go-nuts"
)

// @title BEDS Hub API
// @version 2.0
// @description Building Earthquake Detection System: sites, users, sensor ingestion and status.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting BEDS Hub Server v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    ____  __________  _____",
		"   / __ )/ ____/ __ \\/ ___/",
		"  / __  / __/ / / / /\\__ \\ ",
		" / /_/ / /___/ /_/ /___/ / ",
		"/_____/_____/_____//____/  ",
		"..............................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
