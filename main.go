package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fadhlanhapp/congno-backend/commands"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("level=warn component=main msg=\".env file not found, using environment variables\"")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
