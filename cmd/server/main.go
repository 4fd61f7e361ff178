package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/linkproof/internal/buildinfo"
	"github.com/dmitrijs2005/linkproof/internal/server"
	"github.com/dmitrijs2005/linkproof/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
