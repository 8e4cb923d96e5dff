package config

import (
	"flag"
	"time"
)

// parseFlags parses configuration flags from args (typically os.Args[1:]).
//
// Flags:
//
//	-p/-port           plaintext listener port
//	-static            static assets directory
//	-views             view templates directory
//	-views-ext         view template file extension
//	-d                 database DSN
//	-c/-config         json file path with configs
//	-request-timeout   per-request timeout (e.g., "30s", "1m")
//	-shutdown-timeout  graceful shutdown timeout (e.g., "10s")
//	-body-limit        max request body size in bytes
func parseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("boar", flag.ContinueOnError)

	var port int
	var staticDir, viewsDir, viewsExt string
	var dsn string
	var jsonConfigPath string
	var requestTimeout, shutdownTimeout time.Duration
	var bodyLimit int64

	fs.IntVar(&port, "p", 0, "Plaintext listener port")
	fs.IntVar(&port, "port", 0, "Plaintext listener port (alias)")
	fs.StringVar(&staticDir, "static", "", "Static assets directory")
	fs.StringVar(&viewsDir, "views", "", "View templates directory")
	fs.StringVar(&viewsExt, "views-ext", "", "View template file extension")
	fs.StringVar(&dsn, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout (e.g., 10s)")
	fs.Int64Var(&bodyLimit, "body-limit", 0, "Max request body size in bytes")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Config{
		Server: Server{
			Port:            port,
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: shutdownTimeout,
			BodyLimit:       bodyLimit,
		},
		Assets: Assets{
			StaticDir: staticDir,
			ViewsDir:  viewsDir,
			ViewsExt:  viewsExt,
		},
		Storage: Storage{
			DSN: dsn,
		},
		ConfigFile: jsonConfigPath,
	}, nil
}
