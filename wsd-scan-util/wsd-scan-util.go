/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/google/wsd-scan-util/lib"
	"github.com/google/wsd-scan-util/log"
	"github.com/google/wsd-scan-util/scanner"
	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

// environment is what a run of the app touches outside the process.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	dial   func(endpoint string) (scanner.Device, error)
	ctx    context.Context
}

func dialScanner(endpoint string) (scanner.Device, error) {
	return scanner.NewClient(endpoint, nil)
}

const configMetadataKey = "config"

// errUsage marks errors in the command line itself.
var errUsage = errors.New("usage error")

func usageErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// scannerError is a failure reaching or using the scanner at url.
type scannerError struct {
	url string
	err error
}

func (e *scannerError) Error() string {
	return e.err.Error()
}

func (e *scannerError) Unwrap() error {
	return e.err
}

func newApp(env *environment) *cli.App {
	app := cli.NewApp()
	app.Name = "wsd-scan-util"
	app.Usage = lib.FullName
	app.UsageText = "wsd-scan-util [scanner URL] [global options] command [command options]"
	app.Version = lib.BuildDate
	// Standard output only ever carries command results, such as the image.
	app.Writer = env.stderr
	app.ErrWriter = env.stderr
	app.Metadata = map[string]interface{}{}
	app.Flags = []cli.Flag{
		lib.ConfigFilenameFlag,
		cli.StringFlag{
			Name:   "url",
			Usage:  "WS-Scan service URL, e.g. http://192.168.1.20:5358/wsd/scan",
			EnvVar: "WSD_SCAN_URL",
		},
		cli.BoolFlag{
			Name:   "debug",
			Usage:  "Log at debug level, including SOAP messages",
			EnvVar: "WSD_SCAN_DEBUG",
		},
	}
	app.Commands = []cli.Command{
		scanCommand(env),
		shellCommand(env),
		infoCommand(env),
		discoverCommand(env),
		initCommand(env),
	}
	app.Before = func(context *cli.Context) error {
		return setup(context)
	}
	app.Action = func(context *cli.Context) error {
		cli.ShowAppHelp(context)
		if context.NArg() > 0 {
			return usageErrorf("unknown operation %q", context.Args().First())
		}
		return usageErrorf("missing operation")
	}
	return app
}

// setup reads the config file and configures logging from it.
func setup(context *cli.Context) error {
	config, filename, err := lib.GetConfig(context)
	if err != nil {
		return err
	}
	context.App.Metadata[configMetadataKey] = config

	level, ok := log.LevelFromString(config.LogLevel)
	if !ok {
		return fmt.Errorf("invalid log_level %q in %s", config.LogLevel, filename)
	}
	if context.GlobalBool("debug") {
		level = log.DEBUG
	}
	log.SetLevel(level)
	log.SetJournalEnabled(config.LogToJournal != nil && *config.LogToJournal)

	if filename != "" {
		log.Debugf("Using config file %s", filename)
	}
	log.Debugf("Logging at %s", level)
	return nil
}

func getConfig(context *cli.Context) *lib.Config {
	if config, ok := context.App.Metadata[configMetadataKey].(*lib.Config); ok {
		return config
	}
	config := lib.DefaultConfig
	return &config
}

// endpoint returns the scan service URL from the command line, the
// environment or the config file, in that order.
func endpoint(context *cli.Context) (string, error) {
	if url := context.GlobalString("url"); url != "" {
		return url, nil
	}
	if url := getConfig(context).ScannerURL; url != "" {
		return url, nil
	}
	return "", usageErrorf("missing scanner URL: give it first on the command line, with --url, or as scanner_url in the config file")
}

func dial(context *cli.Context, env *environment) (scanner.Device, string, error) {
	url, err := endpoint(context)
	if err != nil {
		return nil, "", err
	}
	device, err := env.dial(url)
	if err != nil {
		return nil, "", &scannerError{url, err}
	}
	return device, url, nil
}

func isCommand(app *cli.App, name string) bool {
	if name == "help" || name == "h" {
		return true
	}
	for _, c := range app.Commands {
		if c.HasName(name) {
			return true
		}
	}
	return false
}

// splitEndpoint turns a leading positional scanner URL into a --url flag,
// so that "prog URL [--debug] op" parses like "prog --url URL [--debug] op".
func splitEndpoint(app *cli.App, args []string) []string {
	if len(args) < 2 {
		return args
	}
	first := args[1]
	if first == "" || strings.HasPrefix(first, "-") || isCommand(app, first) {
		return args
	}
	split := make([]string, 0, len(args)+1)
	split = append(split, args[0], "--url", first)
	return append(split, args[2:]...)
}

// listFlags take several values after a single flag name, up to the given
// count. Zero means any number, including none.
var listFlags = map[string]int{
	"color":    2,
	"ppi":      2,
	"region":   2,
	"optional": 0,
}

// expandListFlags rewrites "--ppi 200 300" as "--ppi 200 --ppi 300", the
// form cli.StringSliceFlag parses. Values run until the next flag.
func expandListFlags(args []string) []string {
	expanded := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(expanded, args[i:]...)
		}
		limit, isList := listFlags[strings.TrimLeft(arg, "-")]
		if !isList || !strings.HasPrefix(arg, "-") {
			expanded = append(expanded, arg)
			continue
		}

		n := 0
		for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") && (limit == 0 || n < limit) {
			expanded = append(expanded, arg, args[i+1])
			i++
			n++
		}
		if n == 0 && limit != 0 {
			// Leave the missing value for cli to report.
			expanded = append(expanded, arg)
		}
	}
	return expanded
}

// run runs the app and returns the process exit code.
func run(env *environment, args []string) int {
	log.SetWriter(env.stderr)

	app := newApp(env)
	if err := app.Run(expandListFlags(splitEndpoint(app, args))); err != nil {
		logError(err)
		return 1
	}
	return 0
}

// logError logs the error that ended the run, tagged with the job or the
// scanner it happened on.
func logError(err error) {
	var scanErr *scanner.ScanError
	var scannerErr *scannerError
	switch {
	case errors.As(err, &scanErr) && scanErr.JobID != 0:
		log.ErrorJobf(strconv.Itoa(scanErr.JobID), "%s", err)
	case errors.As(err, &scannerErr):
		log.ErrorScannerf(scannerErr.url, "%s", scannerErr.err)
	default:
		log.Error(err)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %s\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	env := &environment{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
		dial:   dialScanner,
		ctx:    ctx,
	}
	code := run(env, os.Args)
	stop()
	os.Exit(code)
}
