package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line. See parseFlags for the list of
// recognised flags.
func ParseFlags(args []string) (*StructuredConfig, error) {
	return parseFlags(args)
}

// parseFlags parses configuration flags from args on a private FlagSet.
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-r remote API address used by the client (e.g. localhost:8080)
//	-d ingest database DSN
//	-queue-driver durable queue driver: file | sqlite
//	-queue-path durable queue file path
//	-max-retries failed attempts before eviction
//	-sync-interval timer trigger period (e.g. "5m")
//	-probe-interval connectivity probe period (e.g. "15s")
//	-no-probe disable the connectivity prober
//	-request-timeout request timeout (e.g. "10s")
//	-metrics enable prometheus observers
//	-metrics-address client /metrics listen address
//	-log-file client log file
//	-c/-config json file path with configs
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-field-sync", flag.ContinueOnError)

	var serverAddress NetAddress
	var (
		remoteAddress  string
		databaseDSN    string
		queueDriver    string
		queuePath      string
		maxRetries     int
		syncInterval   time.Duration
		probeInterval  time.Duration
		noProbe        bool
		requestTimeout time.Duration
		metricsEnabled bool
		metricsAddress string
		logFile        string
		jsonConfigPath string
	)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&remoteAddress, "r", "", "Remote API address")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&queueDriver, "queue-driver", "", "Durable queue driver (file, sqlite)")
	fs.StringVar(&queuePath, "queue-path", "", "Durable queue file path")
	fs.IntVar(&maxRetries, "max-retries", 0, "Failed attempts before eviction")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Sync timer period (e.g., 5m)")
	fs.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe period (e.g., 15s)")
	fs.BoolVar(&noProbe, "no-probe", false, "Disable connectivity probing")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s)")
	fs.BoolVar(&metricsEnabled, "metrics", false, "Enable prometheus metrics")
	fs.StringVar(&metricsAddress, "metrics-address", "", "Client metrics listen address")
	fs.StringVar(&logFile, "log-file", "", "Client log file")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    remoteAddress,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			Queue: Queue{Driver: queueDriver, Path: queuePath},
			DB:    DB{DSN: databaseDSN},
		},
		Sync: Sync{
			MaxRetries:    maxRetries,
			Interval:      syncInterval,
			ProbeInterval: probeInterval,
			ProbeDisabled: noProbe,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Metrics:      Metrics{Enabled: metricsEnabled, Address: metricsAddress},
		Log:          Log{File: logFile},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost"
// or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
