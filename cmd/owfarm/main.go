package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/otjiningirua/owfarm/config"
	"github.com/otjiningirua/owfarm/internal/adminapi"
	"github.com/otjiningirua/owfarm/internal/app"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

var (
	version = "dev"

	cfile   = flag.String("c", "", "config yaml file")
	initdb  = flag.Bool("initdb", false, "drop and recreate all tables, relational backend only")
	seed    = flag.Bool("seed", false, "insert the demo catalog if missing")
	showVer = flag.Bool("v", false, "show version")
)

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("owfarm " + version)
		return
	}

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig(*cfile)
	if err != nil {
		return err
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		return err
	}
	defer application.Release()

	if *initdb {
		if err := application.InitDb(); err != nil {
			return err
		}
		zap.S().Info("database initialized")
		return nil
	}
	if *seed {
		application.SeedCatalog()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := webserver.NewAdminServer(application)
	adminapi.Init(server)
	return server.Start(ctx)
}
