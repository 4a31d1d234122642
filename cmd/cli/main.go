package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/cli"
	"github.com/dmitrijs2005/ums/internal/client/config"
	"github.com/dmitrijs2005/ums/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/ums/internal/client/session"
	"github.com/dmitrijs2005/ums/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig(os.Args[1:])
	logger := logging.New(os.Stderr, cfg.LogLevel, "text")

	store, err := sessions.Open(ctx, sessions.Options{Kind: sessions.KindSQLite, SQLitePath: cfg.SQLitePath})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer store.Close()

	client := apiclient.New(cfg.BackendURL, apiclient.WithLogger(logger))
	m := session.NewManager(cli.Namespace, store, client, logger)

	cli.NewApp(m, logger, cli.WithPageSize(cfg.PageSize)).Run(ctx)

}
