package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gi8lino/ticketbridge/internal/app"
)

var (
	Version string = "dev"
	Commit  string = "none"
)

func main() {
	if err := app.Run(context.Background(), Version, Commit, os.Args[1:], os.Stdout, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
