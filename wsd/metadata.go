/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package wsd

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/wsd-scan-util/log"
	"github.com/google/wsd-scan-util/soap"
	"github.com/google/wsd-scan-util/wscan"
)

const (
	ActionGet = "http://schemas.xmlsoap.org/ws/2004/09/transfer/Get"

	// ScannerServiceType is the type of hosted WS-Scan services.
	ScannerServiceType = wscan.Prefix + ":ScannerServiceType"
)

// Metadata is the body of a WS-Transfer GetResponse from a DPWS device.
type Metadata struct {
	XMLName  xml.Name          `xml:"Metadata"`
	Sections []MetadataSection `xml:"MetadataSection"`
}

type MetadataSection struct {
	Dialect      string        `xml:"Dialect,attr"`
	ThisDevice   *ThisDevice   `xml:"ThisDevice"`
	ThisModel    *ThisModel    `xml:"ThisModel"`
	Relationship *Relationship `xml:"Relationship"`
}

type ThisDevice struct {
	FriendlyName    string `xml:"FriendlyName"`
	FirmwareVersion string `xml:"FirmwareVersion"`
	SerialNumber    string `xml:"SerialNumber"`
}

type ThisModel struct {
	Manufacturer string `xml:"Manufacturer"`
	ModelName    string `xml:"ModelName"`
}

type Relationship struct {
	Type   string   `xml:"Type,attr"`
	Hosted []Hosted `xml:"Hosted"`
}

type Hosted struct {
	Addresses []string `xml:"EndpointReference>Address"`
	Types     string   `xml:"Types"`
	ServiceID string   `xml:"ServiceId"`
}

// Scanner is a discovered device and its scan service.
type Scanner struct {
	Address      string
	XAddrs       []string
	FriendlyName string
	Manufacturer string
	ModelName    string
	SerialNumber string
	// ScanServiceURL is the WS-Scan endpoint; empty if the device hosts none.
	ScanServiceURL string
}

func (s *Scanner) String() string {
	name := s.FriendlyName
	if name == "" {
		name = strings.TrimSpace(s.Manufacturer + " " + s.ModelName)
	}
	if name == "" {
		name = s.Address
	}
	return name
}

// GetMetadata performs a WS-Transfer Get on a device transport address.
// address is the device endpoint address, e.g. urn:uuid:....
func GetMetadata(ctx context.Context, hc *http.Client, xaddr, address string) (*Metadata, error) {
	client := soap.NewClient(xaddr, hc)
	var metadata Metadata
	if _, err := client.CallTo(ctx, address, ActionGet, nil, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}

// Apply copies the device description and scan service endpoint from m.
func (s *Scanner) Apply(m *Metadata) {
	for _, section := range m.Sections {
		if d := section.ThisDevice; d != nil {
			s.FriendlyName = strings.TrimSpace(d.FriendlyName)
			s.SerialNumber = strings.TrimSpace(d.SerialNumber)
		}
		if d := section.ThisModel; d != nil {
			s.Manufacturer = strings.TrimSpace(d.Manufacturer)
			s.ModelName = strings.TrimSpace(d.ModelName)
		}
		if r := section.Relationship; r != nil && s.ScanServiceURL == "" {
			for _, hosted := range r.Hosted {
				if !HasType(hosted.Types, ScannerServiceType) {
					continue
				}
				for _, a := range hosted.Addresses {
					a = strings.TrimSpace(a)
					if strings.HasPrefix(a, "http://") || strings.HasPrefix(a, "https://") {
						s.ScanServiceURL = a
						break
					}
				}
			}
		}
	}
}

// Resolve fetches the metadata of a probe match from the first of its
// transport addresses that answers.
func Resolve(ctx context.Context, hc *http.Client, m ProbeMatch) (*Scanner, error) {
	s := &Scanner{Address: m.Address, XAddrs: m.XAddrs}
	if len(m.XAddrs) == 0 {
		return s, fmt.Errorf("device %s has no transport addresses", m.Address)
	}

	var err error
	for _, xaddr := range m.XAddrs {
		var metadata *Metadata
		if metadata, err = GetMetadata(ctx, hc, xaddr, m.Address); err != nil {
			log.DebugScannerf(m.Address, "No metadata at %s: %s", xaddr, err)
			continue
		}
		s.Apply(metadata)
		return s, nil
	}
	return s, err
}

// ErrNoScanners is returned by Discover when no device answered.
var ErrNoScanners = errors.New("no scanners found")

// Discover probes for scanners and resolves the scan service of each.
// Devices whose metadata cannot be read are returned without a
// ScanServiceURL.
func Discover(ctx context.Context, p *Prober, hc *http.Client) ([]*Scanner, error) {
	matches, err := p.Probe(ctx, ScanDeviceType)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNoScanners
	}

	scanners := make([]*Scanner, 0, len(matches))
	for _, m := range matches {
		s, err := Resolve(ctx, hc, m)
		if err != nil {
			log.WarningScannerf(m.Address, "Failed to read metadata: %s", err)
		}
		scanners = append(scanners, s)
	}
	return scanners, nil
}
