/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package scanner talks to the WS-Scan service of one network scanner.
package scanner

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/wsd-scan-util/soap"
	"github.com/google/wsd-scan-util/wscan"
)

// Service is the part of WS-Scan a scan needs.
type Service interface {
	ValidateScanTicket(ctx context.Context, ticket *wscan.ScanTicket) (*wscan.ValidationInfo, error)
	CreateScanJob(ctx context.Context, ticket *wscan.ScanTicket) (*wscan.CreateScanJobResponse, error)
	RetrieveImage(ctx context.Context, jobID int, jobToken, documentName string) ([]byte, error)
}

// Inspector reads scanner state and manages its jobs.
type Inspector interface {
	GetScannerElements(ctx context.Context, elements ...string) ([]wscan.ElementData, error)
	GetActiveJobs(ctx context.Context) ([]wscan.JobSummary, error)
	CancelJob(ctx context.Context, jobID int) error
}

// Device is a scanner that can both scan and be inspected.
type Device interface {
	Service
	Inspector
}

// Client implements Device over SOAP.
type Client struct {
	soap *soap.Client
}

// NewClient returns a client for the scan service at endpoint, which must be
// an absolute http or https URL.
func NewClient(endpoint string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid scanner URL %q: %s", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid scanner URL %q: expected http://host[:port]/path", endpoint)
	}

	return &Client{
		soap: soap.NewClient(endpoint, hc, soap.Namespace(wscan.Prefix, wscan.Namespace)),
	}, nil
}

// URL returns the scan service endpoint.
func (c *Client) URL() string {
	return c.soap.URL()
}

func (c *Client) call(ctx context.Context, op string, request, response interface{}) (soap.Attachments, error) {
	return c.soap.Call(ctx, wscan.Action(op), request, response)
}

// ValidateScanTicket asks the scanner whether it supports ticket.
func (c *Client) ValidateScanTicket(ctx context.Context, ticket *wscan.ScanTicket) (*wscan.ValidationInfo, error) {
	var response wscan.ValidateScanTicketResponse
	if _, err := c.call(ctx, wscan.OpValidateScanTicket, &wscan.ValidateScanTicketRequest{ScanTicket: ticket}, &response); err != nil {
		return nil, err
	}
	return &response.ValidationInfo, nil
}

// CreateScanJob starts a job; the returned id and token retrieve its image.
func (c *Client) CreateScanJob(ctx context.Context, ticket *wscan.ScanTicket) (*wscan.CreateScanJobResponse, error) {
	var response wscan.CreateScanJobResponse
	if _, err := c.call(ctx, wscan.OpCreateScanJob, &wscan.CreateScanJobRequest{ScanTicket: ticket}, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// RetrieveImage fetches the image of a job, from an MTOM attachment or
// from inline base64.
func (c *Client) RetrieveImage(ctx context.Context, jobID int, jobToken, documentName string) ([]byte, error) {
	request := &wscan.RetrieveImageRequest{
		JobID:               jobID,
		JobToken:            jobToken,
		DocumentDescription: wscan.DocumentDescription{DocumentName: documentName},
	}
	var response wscan.RetrieveImageResponse
	attachments, err := c.call(ctx, wscan.OpRetrieveImage, request, &response)
	if err != nil {
		return nil, err
	}

	if include := response.ScanData.Include; include != nil {
		return attachments.Resolve(include.Href)
	}

	data := strings.Join(strings.Fields(response.ScanData.Data), "")
	if data == "" {
		return nil, fmt.Errorf("RetrieveImage response has no ScanData")
	}
	image, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ScanData: %s", err)
	}
	return image, nil
}

// GetScannerElements reads the named elements, by default the scanner
// description, configuration and status.
func (c *Client) GetScannerElements(ctx context.Context, elements ...string) ([]wscan.ElementData, error) {
	if len(elements) == 0 {
		elements = []string{
			wscan.ElementScannerDescription,
			wscan.ElementScannerConfiguration,
			wscan.ElementScannerStatus,
		}
	}
	var response wscan.GetScannerElementsResponse
	if _, err := c.call(ctx, wscan.OpGetScannerElements, &wscan.GetScannerElementsRequest{RequestedElements: elements}, &response); err != nil {
		return nil, err
	}
	return response.ElementData, nil
}

func (c *Client) GetActiveJobs(ctx context.Context) ([]wscan.JobSummary, error) {
	var response wscan.GetActiveJobsResponse
	if _, err := c.call(ctx, wscan.OpGetActiveJobs, &wscan.GetActiveJobsRequest{}, &response); err != nil {
		return nil, err
	}
	return response.Jobs, nil
}

func (c *Client) CancelJob(ctx context.Context, jobID int) error {
	_, err := c.call(ctx, wscan.OpCancelJob, &wscan.CancelJobRequest{JobID: jobID}, &wscan.CancelJobResponse{})
	return err
}
