/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package wsd finds WS-Scan services on the local network with WS-Discovery
// and WS-Transfer metadata exchange.
package wsd

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/wsd-scan-util/log"
	"github.com/google/wsd-scan-util/soap"
	"github.com/google/wsd-scan-util/wscan"
	"golang.org/x/net/ipv4"
)

const (
	NamespaceDiscovery = "http://schemas.xmlsoap.org/ws/2005/04/discovery"

	// AddressDiscovery is the To of multicast discovery messages.
	AddressDiscovery = "urn:schemas-xmlsoap-org:ws:2005:04:discovery"

	ActionProbe        = NamespaceDiscovery + "/Probe"
	ActionProbeMatches = NamespaceDiscovery + "/ProbeMatches"

	// MulticastAddress is the IPv4 WS-Discovery group and port.
	MulticastAddress = "239.255.255.250:3702"

	// ScanDeviceType is the device type of scanners, with the WS-Scan prefix.
	ScanDeviceType = wscan.Prefix + ":ScanDeviceType"

	// Probes are repeated once, as UDP may drop them.
	probeRepeat   = 2
	probeInterval = 100 * time.Millisecond

	maxDatagram = 64 * 1024
)

type probe struct {
	XMLName xml.Name `xml:"wsd:Probe"`
	Types   string   `xml:"wsd:Types"`
}

// ProbeMatch is one device that answered a probe.
type ProbeMatch struct {
	Address         string   `xml:"EndpointReference>Address"`
	Types           string   `xml:"Types"`
	Scopes          string   `xml:"Scopes"`
	XAddrs          []string `xml:"-"`
	RawXAddrs       string   `xml:"XAddrs"`
	MetadataVersion int      `xml:"MetadataVersion"`
}

type probeMatchesEnvelope struct {
	XMLName   xml.Name     `xml:"Envelope"`
	Action    string       `xml:"Header>Action"`
	RelatesTo string       `xml:"Header>RelatesTo"`
	Matches   []ProbeMatch `xml:"Body>ProbeMatches>ProbeMatch"`
}

// parseProbeMatches returns the matches of a ProbeMatches message sent in
// reply to messageID. Other messages yield no matches.
func parseProbeMatches(datagram []byte, messageID string) ([]ProbeMatch, error) {
	var e probeMatchesEnvelope
	if err := xml.Unmarshal(datagram, &e); err != nil {
		return nil, fmt.Errorf("failed to parse discovery message: %s", err)
	}
	if strings.TrimSpace(e.Action) != ActionProbeMatches {
		return nil, nil
	}
	if rt := strings.TrimSpace(e.RelatesTo); rt != "" && rt != messageID {
		return nil, nil
	}

	matches := make([]ProbeMatch, 0, len(e.Matches))
	for _, m := range e.Matches {
		m.Address = strings.TrimSpace(m.Address)
		m.XAddrs = strings.Fields(m.RawXAddrs)
		if m.Address == "" {
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// HasType reports whether the space-separated QName list types contains a
// name with the local part of typ, ignoring prefixes.
func HasType(types, typ string) bool {
	local := typ[strings.LastIndex(typ, ":")+1:]
	for _, t := range strings.Fields(types) {
		if t[strings.LastIndex(t, ":")+1:] == local {
			return true
		}
	}
	return false
}

// Prober sends WS-Discovery probes and collects the matches.
type Prober struct {
	// Destination of probes; MulticastAddress when empty.
	Address string
	// Interface to send multicast on; the system default when nil.
	Interface *net.Interface
	// IP TTL of multicast probes.
	TTL int
	// How long to wait for matches.
	Timeout time.Duration
}

// Probe multicasts a probe for devices of the given types (e.g.
// ScanDeviceType) and returns the matches received before the timeout or
// until ctx is done, one per endpoint address.
func (p *Prober) Probe(ctx context.Context, types ...string) ([]ProbeMatch, error) {
	address := p.Address
	if address == "" {
		address = MulticastAddress
	}
	dst, err := net.ResolveUDPAddr("udp4", address)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("failed to open discovery socket: %s", err)
	}
	defer conn.Close()

	pc := ipv4.NewPacketConn(conn)
	if dst.IP.IsMulticast() {
		if p.TTL > 0 {
			if err = pc.SetMulticastTTL(p.TTL); err != nil {
				return nil, fmt.Errorf("failed to set multicast TTL: %s", err)
			}
		}
		if p.Interface != nil {
			if err = pc.SetMulticastInterface(p.Interface); err != nil {
				return nil, fmt.Errorf("failed to set multicast interface %s: %s", p.Interface.Name, err)
			}
		}
		if err = pc.SetMulticastLoopback(true); err != nil {
			log.Warningf("Failed to enable multicast loopback: %s", err)
		}
	}

	envelope := soap.NewEnvelope(AddressDiscovery, ActionProbe, &probe{Types: strings.Join(types, " ")},
		soap.Namespace("wsd", NamespaceDiscovery), soap.Namespace(wscan.Prefix, wscan.Namespace))
	envelope.Header.ReplyTo = nil
	message, err := envelope.Marshal()
	if err != nil {
		return nil, err
	}
	messageID := envelope.Header.MessageID

	deadline := time.Now().Add(p.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err = conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		for i := 0; i < probeRepeat; i++ {
			if i > 0 {
				select {
				case <-ctx.Done():
					return
				case <-stop:
					return
				case <-time.After(probeInterval):
				}
			}
			log.Debugf("Sending probe %s to %s", messageID, dst)
			if _, err := pc.WriteTo(message, nil, dst); err != nil {
				log.Warningf("Failed to send probe to %s: %s", dst, err)
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			conn.SetReadDeadline(time.Now())
		case <-stop:
		}
	}()

	var matches []ProbeMatch
	index := map[string]int{}
	buffer := make([]byte, maxDatagram)
	for {
		n, from, err := conn.ReadFrom(buffer)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				break
			}
			return nil, fmt.Errorf("failed to read discovery reply: %s", err)
		}

		found, err := parseProbeMatches(buffer[:n], messageID)
		if err != nil {
			log.Debugf("Ignoring datagram from %s: %s", from, err)
			continue
		}
		for _, m := range found {
			if i, exists := index[m.Address]; exists {
				matches[i].XAddrs = mergeXAddrs(matches[i].XAddrs, m.XAddrs)
				continue
			}
			log.Debugf("Probe match %s from %s at %v", m.Address, from, m.XAddrs)
			index[m.Address] = len(matches)
			matches = append(matches, m)
		}
	}

	if err = ctx.Err(); err != nil && len(matches) == 0 {
		return nil, err
	}
	return matches, nil
}

func mergeXAddrs(a, b []string) []string {
	for _, x := range b {
		found := false
		for _, y := range a {
			if x == y {
				found = true
				break
			}
		}
		if !found {
			a = append(a, x)
		}
	}
	return a
}
