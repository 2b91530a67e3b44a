/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/wsd-scan-util/scanner"
	"github.com/google/wsd-scan-util/wscan"
	"github.com/urfave/cli"
)

const shellHelp = `Commands:
  help          Show this help
  info          Show the scanner description, status and capabilities
  status        Show the scanner status
  jobs          List active jobs
  cancel <id>   Cancel a job
  validate      Validate the default scan ticket
  quit          Leave the shell
`

func shellCommand(env *environment) cli.Command {
	return cli.Command{
		Name:      "shell",
		ShortName: "sh",
		Usage:     "Opens an interactive session with the scanner",
		Action: func(context *cli.Context) error {
			device, url, err := dial(context, env)
			if err != nil {
				return err
			}
			return runShell(env, device, url)
		},
	}
}

// runShell reads commands from env.stdin until quit or end of input.
// Failed commands are reported and the session goes on.
func runShell(env *environment, device scanner.Device, url string) error {
	fmt.Fprintf(env.stdout, "Connected to %s. Type help for commands.\n", url)
	in := bufio.NewScanner(env.stdin)
	for {
		fmt.Fprint(env.stdout, "wsd> ")
		if !in.Scan() {
			fmt.Fprintln(env.stdout)
			return in.Err()
		}

		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := shellCommandLine(env, device, fields); err != nil {
			fmt.Fprintf(env.stdout, "Error: %s\n", err)
		}
	}
}

func shellCommandLine(env *environment, device scanner.Device, fields []string) error {
	switch fields[0] {
	case "help", "?":
		fmt.Fprint(env.stdout, shellHelp)

	case "info":
		elements, err := device.GetScannerElements(env.ctx)
		if err != nil {
			return err
		}
		printElements(env.stdout, elements)

	case "status":
		elements, err := device.GetScannerElements(env.ctx, wscan.ElementScannerStatus)
		if err != nil {
			return err
		}
		printElements(env.stdout, elements)

	case "jobs":
		jobs, err := device.GetActiveJobs(env.ctx)
		if err != nil {
			return err
		}
		printJobs(env.stdout, jobs)

	case "cancel":
		if len(fields) != 2 {
			return fmt.Errorf("usage: cancel <id>")
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid job id %q", fields[1])
		}
		if err = device.CancelJob(env.ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(env.stdout, "Cancelled job %d\n", id)

	case "validate":
		ticket, err := wscan.BuildTicket(defaultTicketOptions(env))
		if err != nil {
			return err
		}
		info, err := device.ValidateScanTicket(env.ctx, ticket)
		if err != nil {
			return err
		}
		printValidation(env.stdout, info)

	default:
		return fmt.Errorf("unknown command %q, type help for commands", fields[0])
	}
	return nil
}

func printValidation(w io.Writer, info *wscan.ValidationInfo) {
	if info.ValidTicket {
		fmt.Fprintln(w, "Ticket is valid")
	} else {
		fmt.Fprintln(w, "Ticket is not valid: "+scanner.ErrTicketRejected.Error())
	}
	if ii := info.ImageInformation; ii != nil {
		for _, side := range []struct {
			name string
			info *wscan.ImageInfo
		}{{"Front", ii.MediaFrontImageInfo}, {"Back", ii.MediaBackImageInfo}} {
			if side.info != nil {
				fmt.Fprintf(w, "%s image: %dx%d pixels, %d bytes per line\n",
					side.name, side.info.PixelsPerLine, side.info.NumberOfLines, side.info.BytesPerLine)
			}
		}
	}
}
