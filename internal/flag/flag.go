package flag

import (
	"io"
	"net"

	"github.com/containeroo/tinyflags"
	"github.com/gi8lino/ticketbridge/internal/logging"
	"github.com/gi8lino/ticketbridge/internal/utils"
)

// Config aggregates CLI flags after parsing.
type Config struct {
	ListenAddr  string            // HTTP bind address (e.g. ":8080")
	Debug       bool              // Enables debug logging
	LogFormat   logging.LogFormat // Log output format (text or json)
	Config      string            // Path to config file
	EnvFile     string            // Optional dotenv file loaded before config resolution
	RoutePrefix string            // Canonical path prefix ("" or "/ticketbridge")
	OTelURL     string            // OTLP/HTTP endpoint; empty disables trace export
	OTelHeaders string            // Extra exporter headers as k=v,k=v
}

// ParseArgs parses CLI arguments into Config, handling version/help flags.
func ParseArgs(version string, args []string, out io.Writer, getEnv func(string) string) (Config, error) {
	var cfg Config
	tf := tinyflags.NewFlagSet("ticketbridge", tinyflags.ContinueOnError)
	tf.Version(version)
	tf.SetGetEnvFn(getEnv)
	tf.EnvPrefix("TICKETBRIDGE")
	tf.SetOutput(out)

	// Server
	tf.StringVar(&cfg.Config, "config", "config.yaml", "Path to config file").Value()
	tf.StringVar(&cfg.EnvFile, "env-file", "", "Dotenv file loaded before resolving env: references").
		Placeholder("PATH").
		Value()

	route := tf.String("route-prefix", "", "Path prefix to mount the app (e.g., /ticketbridge). Empty = root.").
		Finalize(func(input string) string {
			return utils.NormalizeRoutePrefix(input)
		}).
		Placeholder("PATH").
		Value()

	listenAddr := tf.TCPAddr("listen-address", &net.TCPAddr{IP: nil, Port: 8080}, "HTTP server listen address").
		Placeholder("ADDR:PORT").
		Value()

	// Logging
	tf.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging").Value()
	logFormat := tf.String("log-format", "text", "Log format").Choices("text", "json").Short("l").Value()

	// Tracing
	tf.StringVar(&cfg.OTelURL, "otel-endpoint", "", "OTLP/HTTP endpoint for traces (e.g. http://collector:4318). Empty = disabled.").
		Placeholder("URL").
		Value()
	tf.StringVar(&cfg.OTelHeaders, "otel-headers", "", "Headers for the OTLP exporter as key=value,key=value").
		Placeholder("HEADERS").
		Value()

	if err := tf.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.LogFormat = logging.LogFormat(*logFormat)
	cfg.ListenAddr = (*listenAddr).String()
	cfg.RoutePrefix = *route

	return cfg, nil
}
