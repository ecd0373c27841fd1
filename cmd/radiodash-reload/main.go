// Command radiodash-reload publishes a report reload command to the
// dashboards listening on the configured AMQP exchange.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/user"
	"time"

	"radiodash/internal/amqp"
	"radiodash/internal/cli"
	applog "radiodash/internal/log"
)

func main() {
	source := flag.String("source", "", "report identity to reload (empty reloads every report)")
	requestedBy := flag.String("by", defaultRequester(), "name recorded as the requester")
	timeout := flag.Duration("timeout", 10*time.Second, "publish timeout")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.MustConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentReload)

	if cfg.AMQPURL == "" {
		fmt.Fprintln(os.Stderr, "AMQP_URL is required to publish reload commands")
		os.Exit(2)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	msg := amqp.NewReloadMessage(*source, *requestedBy)
	if err := client.PublishReload(ctx, msg); err != nil {
		logger.Error("Failed to publish reload command", "error", err, "source", *source)
		os.Exit(1)
	}
	logger.Info("Reload command published", "source", *source, "requested_by", *requestedBy)
}

func defaultRequester() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "radiodash-reload"
}
