/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package main

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/google/wsd-scan-util/lib"
	"github.com/google/wsd-scan-util/log"
	"github.com/google/wsd-scan-util/wsd"
	"github.com/urfave/cli"
)

func discoverCommand(env *environment) cli.Command {
	return cli.Command{
		Name:      "discover",
		ShortName: "d",
		Usage:     "Finds WS-Scan services on the local network",
		Flags: []cli.Flag{
			cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for scanners to answer (default: discovery_timeout from the config file)",
			},
			cli.StringFlag{
				Name:  "interface",
				Usage: "Network interface to probe on (default: discovery_interface from the config file)",
			},
			cli.IntFlag{
				Name:  "ttl",
				Usage: "Multicast TTL of probes (default: discovery_multicast_ttl from the config file)",
			},
		},
		Action: func(context *cli.Context) error {
			prober, err := newProber(context, getConfig(context))
			if err != nil {
				return err
			}
			hc := &http.Client{Timeout: prober.Timeout}

			log.Infof("Probing for scanners for %s", prober.Timeout)
			scanners, err := wsd.Discover(env.ctx, prober, hc)
			if err != nil {
				return err
			}
			printScanners(env.stdout, scanners)
			return nil
		},
	}
}

// newProber applies flags over config.
func newProber(context *cli.Context, config *lib.Config) (*wsd.Prober, error) {
	timeout, err := config.DiscoveryTimeoutDuration()
	if err != nil {
		return nil, err
	}
	if context.IsSet("timeout") {
		if timeout = context.Duration("timeout"); timeout <= 0 {
			return nil, usageErrorf("--timeout must be positive")
		}
	}

	ttl := config.DiscoveryMulticastTTL
	if context.IsSet("ttl") {
		ttl = context.Int("ttl")
	}
	if ttl < 1 || ttl > 255 {
		return nil, usageErrorf("multicast TTL %d is out of range 1-255", ttl)
	}

	p := &wsd.Prober{TTL: ttl, Timeout: timeout}
	name := config.DiscoveryInterface
	if context.IsSet("interface") {
		name = context.String("interface")
	}
	if name != "" {
		if p.Interface, err = net.InterfaceByName(name); err != nil {
			return nil, fmt.Errorf("unknown network interface %q: %s", name, err)
		}
	}
	return p, nil
}

func printScanners(w io.Writer, scanners []*wsd.Scanner) {
	table := newTable(w)
	table.SetHeader([]string{"Name", "Scan service", "Address"})
	for _, s := range scanners {
		url := s.ScanServiceURL
		if url == "" {
			url = "(unknown: " + strings.Join(s.XAddrs, " ") + ")"
		}
		table.Append([]string{s.String(), url, s.Address})
	}
	table.Render()
}

