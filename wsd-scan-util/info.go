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
	"strings"

	"github.com/google/wsd-scan-util/wscan"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func infoCommand(env *environment) cli.Command {
	return cli.Command{
		Name:      "info",
		ShortName: "n",
		Usage:     "Shows the scanner description, status and capabilities",
		Action: func(context *cli.Context) error {
			device, url, err := dial(context, env)
			if err != nil {
				return err
			}
			elements, err := device.GetScannerElements(env.ctx)
			if err != nil {
				return &scannerError{url, fmt.Errorf("failed to read scanner elements: %w", err)}
			}
			printElements(env.stdout, elements)
			return nil
		},
	}
}

func joinInts(values []int) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = fmt.Sprint(v)
	}
	return strings.Join(s, ", ")
}

func joinColors(values []wscan.ColorProcessing) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

// newTable returns a borderless table, for aligned output that stays
// readable when piped.
func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetHeaderLine(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func printElements(w io.Writer, elements []wscan.ElementData) {
	var rows [][]string
	for _, e := range elements {
		if !e.Valid {
			rows = append(rows, []string{e.Name, "not available"})
			continue
		}
		if d := e.ScannerDescription; d != nil {
			rows = append(rows, []string{"Name", d.ScannerName.String()})
			if info := d.ScannerInfo.String(); info != "" {
				rows = append(rows, []string{"Info", info})
			}
			if location := d.ScannerLocation.String(); location != "" {
				rows = append(rows, []string{"Location", location})
			}
		}
		if s := e.ScannerStatus; s != nil {
			rows = append(rows, statusRows(s)...)
		}
		if c := e.ScannerConfiguration; c != nil {
			rows = append(rows, configurationRows(c)...)
		}
	}

	table := newTable(w)
	table.AppendBulk(rows)
	table.Render()
}

func statusRows(s *wscan.ScannerStatus) [][]string {
	rows := [][]string{{"State", s.ScannerState}}
	if len(s.ScannerStateReasons) > 0 {
		rows = append(rows, []string{"State reasons", strings.Join(s.ScannerStateReasons, ", ")})
	}
	return rows
}

func configurationRows(c *wscan.ScannerConfiguration) [][]string {
	formats := make([]string, len(c.FormatsSupported))
	for i, f := range c.FormatsSupported {
		formats[i] = string(f)
	}
	contentTypes := make([]string, len(c.ContentTypesSupported))
	for i, t := range c.ContentTypesSupported {
		contentTypes[i] = string(t)
	}

	rows := [][]string{
		{"Formats", strings.Join(formats, ", ")},
		{"Content types", strings.Join(contentTypes, ", ")},
		{"Size auto-detect", fmt.Sprint(c.DocumentSizeAutoDetectSupported)},
	}
	if p := c.Platen; p != nil {
		rows = append(rows,
			[]string{"Platen colors", joinColors(p.Colors)},
			[]string{"Platen ppi", joinInts(p.ResolutionWidths) + " x " + joinInts(p.ResolutionHeights)})
		if p.MaximumSize != nil {
			rows = append(rows, []string{"Platen maximum size", fmt.Sprintf("%dx%d thou", p.MaximumSize.Width, p.MaximumSize.Height)})
		}
	}
	if a := c.ADF; a != nil {
		rows = append(rows, []string{"ADF duplex", fmt.Sprint(a.SupportsDuplex)})
		if f := a.Front; f != nil {
			rows = append(rows,
				[]string{"ADF colors", joinColors(f.Colors)},
				[]string{"ADF ppi", joinInts(f.ResolutionWidths) + " x " + joinInts(f.ResolutionHeights)})
			if f.MaximumSize != nil {
				rows = append(rows, []string{"ADF maximum size", fmt.Sprintf("%dx%d thou", f.MaximumSize.Width, f.MaximumSize.Height)})
			}
		}
	}
	return rows
}

func printJobs(w io.Writer, jobs []wscan.JobSummary) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No active jobs")
		return
	}
	table := newTable(w)
	table.SetHeader([]string{"ID", "Name", "User", "State", "Scans"})
	for _, j := range jobs {
		state := j.JobState
		if len(j.JobStateReasons) > 0 {
			state += " (" + strings.Join(j.JobStateReasons, ", ") + ")"
		}
		table.Append([]string{fmt.Sprint(j.JobID), j.JobName, j.JobOriginatingUserName, state, fmt.Sprint(j.ScansCompleted)})
	}
	table.Render()
}
