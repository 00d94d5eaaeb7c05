package main

import (
	"context"
	"log"

	"github.com/wattline/emporia/pkg/api"
)

func main() {
	if err := api.Serve(context.Background(), api.Config{}); err != nil {
		log.Fatal(err)
	}
}
