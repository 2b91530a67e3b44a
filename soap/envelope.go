/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package soap speaks SOAP 1.2 with WS-Addressing (2004/08) headers over HTTP,
// as used by Devices Profile for Web Services (WSD) endpoints.
package soap

import (
	"encoding/xml"

	"github.com/google/uuid"
)

const (
	// NamespaceSOAP is the SOAP 1.2 envelope namespace.
	NamespaceSOAP = "http://www.w3.org/2003/05/soap-envelope"

	// NamespaceWSA is the WS-Addressing namespace WSD devices speak. The
	// newer W3C 2005/08 namespace is not understood by scanner firmware.
	NamespaceWSA = "http://schemas.xmlsoap.org/ws/2004/08/addressing"

	// AddressAnonymous is the anonymous endpoint: reply on the same connection.
	AddressAnonymous = NamespaceWSA + "/role/anonymous"

	ContentType = "application/soap+xml"
)

// Envelope is an outgoing SOAP message. Body elements and header values use
// the "soap" and "wsa" prefixes; Namespaces declares any further prefixes the
// body uses.
type Envelope struct {
	XMLName    xml.Name   `xml:"soap:Envelope"`
	SOAP       string     `xml:"xmlns:soap,attr"`
	WSA        string     `xml:"xmlns:wsa,attr"`
	Namespaces []xml.Attr `xml:",any,attr"`
	Header     Header     `xml:"soap:Header"`
	Body       Body       `xml:"soap:Body"`
}

type Header struct {
	To        string             `xml:"wsa:To"`
	Action    string             `xml:"wsa:Action"`
	MessageID string             `xml:"wsa:MessageID"`
	ReplyTo   *EndpointReference `xml:"wsa:ReplyTo,omitempty"`
}

type EndpointReference struct {
	Address string `xml:"wsa:Address"`
}

// Body holds one request element, or nothing.
type Body struct {
	Content interface{}
}

// Namespace returns an xmlns declaration binding prefix to uri.
func Namespace(prefix, uri string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: "xmlns:" + prefix}, Value: uri}
}

// NewMessageID returns a fresh WS-Addressing message id.
func NewMessageID() string {
	return "urn:uuid:" + uuid.New().String()
}

// NewEnvelope addresses content to "to" with the given action and a fresh
// message id.
func NewEnvelope(to, action string, content interface{}, namespaces ...xml.Attr) *Envelope {
	return &Envelope{
		SOAP:       NamespaceSOAP,
		WSA:        NamespaceWSA,
		Namespaces: namespaces,
		Header: Header{
			To:        to,
			Action:    action,
			MessageID: NewMessageID(),
			ReplyTo:   &EndpointReference{AddressAnonymous},
		},
		Body: Body{Content: content},
	}
}

// Marshal renders the envelope with an XML declaration.
func (e *Envelope) Marshal() ([]byte, error) {
	b, err := xml.Marshal(e)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), b...), nil
}
