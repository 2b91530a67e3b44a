/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/wsd-scan-util/lib"
	"github.com/google/wsd-scan-util/log"
	"github.com/google/wsd-scan-util/media"
	"github.com/google/wsd-scan-util/scanner"
	"github.com/google/wsd-scan-util/wscan"
	"github.com/urfave/cli"
)

const (
	defaultQuality     = "100"
	defaultContentType = string(wscan.ContentAuto)
	defaultFormat      = string(wscan.FormatExif)
	defaultSize        = media.SizeAuto
	defaultSource      = string(wscan.SourcePlaten)
	defaultColor       = string(wscan.ColorRGB24)
	defaultResolution  = "300"
)

func enumNames[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

var scanFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "name",
		Usage: "Job name (default: scan-YYYYMMDD-HHMMSS)",
	},
	cli.StringFlag{
		Name:  "user",
		Usage: "Originating user name (default: user@hostname)",
	},
	cli.StringFlag{
		Name:  "quality",
		Usage: "Compression quality factor, 0 to 100",
		Value: defaultQuality,
	},
	cli.StringFlag{
		Name:  "type",
		Usage: "Content type: " + enumNames(wscan.ContentTypes),
		Value: defaultContentType,
	},
	cli.StringFlag{
		Name:  "format",
		Usage: "Image format: " + enumNames(wscan.Formats),
		Value: defaultFormat,
	},
	cli.StringFlag{
		Name:  "size",
		Usage: `Input size: "auto", a paper name (` + strings.Join(media.Papers(), ", ") + `) or "WIDTHxHEIGHT UNIT"`,
		Value: defaultSize,
	},
	cli.StringFlag{
		Name:  "source",
		Usage: "Input source: " + enumNames(wscan.InputSources),
		Value: defaultSource,
	},
	cli.StringSliceFlag{
		Name:  "color",
		Usage: "Color processing, front then back (e.g. --color RGB24 Grayscale8): " + enumNames(wscan.ColorProcessings) + " (default: " + defaultColor + ")",
	},
	cli.StringSliceFlag{
		Name:  "ppi",
		Usage: "Resolution in pixels per inch, N or WIDTHxHEIGHT, front then back (e.g. --ppi 300 600) (default: " + defaultResolution + ")",
	},
	cli.StringSliceFlag{
		Name:  "region",
		Usage: `Scan region "WIDTHxHEIGHT+X,Y UNIT", front then back; units: ` + strings.Join(media.Units(), ", "),
	},
	cli.StringSliceFlag{
		Name:  "optional",
		Usage: "Ticket fields to send without MustHonor (e.g. --optional Format Resolution): " + strings.Join(wscan.Fields, ", "),
	},
}

func scanCommand(env *environment) cli.Command {
	return cli.Command{
		Name:      "scan",
		ShortName: "s",
		Usage:     "Scans one image and writes it to standard output",
		Flags:     scanFlags,
		Action: func(context *cli.Context) error {
			return scan(context, env)
		},
	}
}

// defaultTicketOptions are the options of a scan with no flags given.
func defaultTicketOptions(env *environment) wscan.TicketOptions {
	return wscan.TicketOptions{
		JobName:     lib.DefaultJobName(env.now()),
		UserName:    lib.DefaultUserName(),
		Quality:     defaultQuality,
		ContentType: defaultContentType,
		Format:      defaultFormat,
		Size:        defaultSize,
		Source:      defaultSource,
		Color:       []string{defaultColor},
		Resolution:  []string{defaultResolution},
	}
}

func ticketOptions(context *cli.Context, env *environment) wscan.TicketOptions {
	o := defaultTicketOptions(env)
	if name := context.String("name"); name != "" {
		o.JobName = name
	}
	if user := context.String("user"); user != "" {
		o.UserName = user
	}
	o.Quality = context.String("quality")
	o.ContentType = context.String("type")
	o.Format = context.String("format")
	o.Size = context.String("size")
	o.Source = context.String("source")
	if color := context.StringSlice("color"); len(color) > 0 {
		o.Color = color
	}
	if ppi := context.StringSlice("ppi"); len(ppi) > 0 {
		o.Resolution = ppi
	}
	o.Region = context.StringSlice("region")
	o.Optional = context.StringSlice("optional")
	return o
}

func scan(context *cli.Context, env *environment) error {
	if context.NArg() > 0 {
		return usageErrorf("unexpected arguments to scan: %s", strings.Join(context.Args(), " "))
	}

	o := ticketOptions(context, env)
	ticket, err := wscan.BuildTicket(o)
	if err != nil {
		return err
	}

	device, url, err := dial(context, env)
	if err != nil {
		return err
	}

	documentName := getConfig(context).DocumentName
	if documentName == "" {
		documentName = o.JobName
	}

	log.InfoScannerf(url, "Scanning %s for %s", o.JobName, o.UserName)
	result, err := scanner.Scan(env.ctx, device, ticket, documentName, env.stdout)
	if err != nil {
		return &scannerError{url, err}
	}
	log.InfoJobf(fmt.Sprint(result.JobID), "Wrote %s", humanize.Bytes(uint64(result.Bytes)))
	return nil
}
