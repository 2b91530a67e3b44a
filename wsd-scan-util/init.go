/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package main

import (
	"fmt"
	"net/http"

	"github.com/google/wsd-scan-util/lib"
	"github.com/google/wsd-scan-util/log"
	"github.com/google/wsd-scan-util/scanner"
	"github.com/google/wsd-scan-util/wsd"
	"github.com/urfave/cli"
)

var initFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scanner-url",
		Usage: "WS-Scan service URL to use by default",
	},
	cli.BoolFlag{
		Name:  "discover",
		Usage: "Use the first scanner found on the local network as the default",
	},
	cli.StringFlag{
		Name:  "document-name",
		Usage: "Document name sent when retrieving images (default: the job name)",
	},
	cli.StringFlag{
		Name:  "log-level",
		Usage: "Minimum event severity to log: ERROR, WARNING, INFO, DEBUG",
		Value: lib.DefaultConfig.LogLevel,
	},
	cli.BoolFlag{
		Name:  "log-to-journal",
		Usage: "Log to the systemd journal (if available) as well as to stderr",
	},
	cli.StringFlag{
		Name:  "discovery-timeout",
		Usage: "How long to wait for scanners to answer discovery",
		Value: lib.DefaultConfig.DiscoveryTimeout,
	},
	cli.StringFlag{
		Name:  "discovery-interface",
		Usage: "Network interface for discovery (default: system default)",
	},
	cli.IntFlag{
		Name:  "discovery-multicast-ttl",
		Usage: "Multicast TTL of discovery probes",
		Value: lib.DefaultConfig.DiscoveryMulticastTTL,
	},
}

func initCommand(env *environment) cli.Command {
	return cli.Command{
		Name:      "init",
		ShortName: "i",
		Usage:     "Creates a config file",
		Flags:     initFlags,
		Action: func(context *cli.Context) error {
			return initConfigFile(context, env)
		},
	}
}

func createConfig(context *cli.Context) *lib.Config {
	scannerURL := context.String("scanner-url")
	if scannerURL == "" {
		scannerURL = context.GlobalString("url")
	}
	return &lib.Config{
		ScannerURL:            scannerURL,
		DocumentName:          context.String("document-name"),
		LogLevel:              context.String("log-level"),
		LogToJournal:          lib.PointerToBool(context.Bool("log-to-journal")),
		DiscoveryTimeout:      context.String("discovery-timeout"),
		DiscoveryInterface:    context.String("discovery-interface"),
		DiscoveryMulticastTTL: context.Int("discovery-multicast-ttl"),
	}
}

func initConfigFile(context *cli.Context, env *environment) error {
	config := createConfig(context)
	if ttl := config.DiscoveryMulticastTTL; ttl < 1 || ttl > 255 {
		return usageErrorf("multicast TTL %d is out of range 1-255", ttl)
	}
	if err := config.Validate(); err != nil {
		return usageErrorf("%s", err)
	}

	if config.ScannerURL == "" && context.Bool("discover") {
		url, err := discoverScanServiceURL(context, env, config)
		if err != nil {
			return err
		}
		config.ScannerURL = url
	}
	if config.ScannerURL != "" {
		if _, err := scanner.NewClient(config.ScannerURL, nil); err != nil {
			return usageErrorf("%s", err)
		}
	}

	filename, err := config.ToFile(context)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Fprintf(env.stdout, "Config file %s written\n", filename)
	return nil
}

// discoverScanServiceURL returns the scan service of the first scanner that
// reports one.
func discoverScanServiceURL(context *cli.Context, env *environment, config *lib.Config) (string, error) {
	prober, err := newProber(context, config)
	if err != nil {
		return "", err
	}
	scanners, err := wsd.Discover(env.ctx, prober, &http.Client{Timeout: prober.Timeout})
	if err != nil {
		return "", err
	}
	for _, s := range scanners {
		if s.ScanServiceURL != "" {
			log.Infof("Using %s at %s", s, s.ScanServiceURL)
			return s.ScanServiceURL, nil
		}
	}
	return "", wsd.ErrNoScanners
}
