package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/ums/internal/client/config"
	"github.com/dmitrijs2005/ums/internal/server"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig(os.Args[1:])
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
