package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/mmynk/billsplit/internal/cli"
	"github.com/mmynk/billsplit/internal/config"
	"github.com/mmynk/billsplit/pkg/logging"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Root flags override the environment.
	apiURL := flag.String("api", cfg.APIBaseURL, "billsplit server address")
	token := flag.String("token", cfg.Token, "bearer token printed by the login subcommand")
	logFile := flag.String("log", cfg.LogFile, "log file used while the interactive UI is open")
	flag.Parse()

	logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	code := cli.Run(ctx, flag.Args(), cli.Options{
		APIURL:  *apiURL,
		Token:   *token,
		LogFile: *logFile,
	})
	stop()
	os.Exit(code)
}
