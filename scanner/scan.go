/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/wsd-scan-util/log"
	"github.com/google/wsd-scan-util/wscan"
)

// ErrTicketRejected is returned when the scanner reports the ticket invalid.
var ErrTicketRejected = errors.New("parameters not supported")

// ScanError is a failure of the scanner after the ticket was accepted,
// while creating the job or retrieving its image.
type ScanError struct {
	Op    string // wscan.OpCreateScanJob or wscan.OpRetrieveImage
	JobID int    // zero when no job was created
	Err   error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan failed: %s", e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Result describes a completed scan.
type Result struct {
	JobID int
	Bytes int
}

// Scan validates ticket, creates a job for it and copies the job's image
// to w. Nothing is written to w unless the whole image was retrieved.
// Every failure is final; the first one is returned.
func Scan(ctx context.Context, svc Service, ticket *wscan.ScanTicket, documentName string, w io.Writer) (*Result, error) {
	log.Info("Validating scan ticket")
	info, err := svc.ValidateScanTicket(ctx, ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to validate scan ticket: %w", err)
	}
	if !info.ValidTicket {
		return nil, ErrTicketRejected
	}

	job, err := svc.CreateScanJob(ctx, ticket)
	if err != nil {
		return nil, &ScanError{Op: wscan.OpCreateScanJob, Err: err}
	}
	jobID := strconv.Itoa(job.JobID)
	log.InfoJob(jobID, "Created scan job")
	if ii := job.ImageInformation; ii != nil && ii.MediaFrontImageInfo != nil {
		log.DebugJobf(jobID, "Front image will be %dx%d pixels",
			ii.MediaFrontImageInfo.PixelsPerLine, ii.MediaFrontImageInfo.NumberOfLines)
	}

	image, err := svc.RetrieveImage(ctx, job.JobID, job.JobToken, documentName)
	if err != nil {
		return nil, &ScanError{Op: wscan.OpRetrieveImage, JobID: job.JobID, Err: err}
	}
	log.InfoJobf(jobID, "Retrieved %d bytes", len(image))

	if _, err = w.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image: %s", err)
	}

	return &Result{JobID: job.JobID, Bytes: len(image)}, nil
}
