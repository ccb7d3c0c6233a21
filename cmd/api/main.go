package main

import (
	"context"
	"log"

	_ "github.com/dhima/dbutils/docs"
	"github.com/dhima/dbutils/internal/api"
)

// @title dbutils statement gateway
// @version 1.0
// @description HTTP front for a single-connection MySQL handle: select all / one / first n, insert, update and delete with positional bind parameters.
// @description Every write runs in its own transaction and is committed before the response is sent.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	srv, err := api.NewServer(context.Background())
	if err != nil {
		log.Fatalf("api server setup failed: %v", err)
	}
	if err := srv.Serve(); err != nil {
		log.Fatalf("api server stopped: %v", err)
	}
}
