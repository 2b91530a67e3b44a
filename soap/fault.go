/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package soap

import (
	"fmt"
	"strings"
)

// Fault is a SOAP 1.2 fault returned by the remote endpoint.
type Fault struct {
	Code   FaultCode   `xml:"Code"`
	Reason FaultReason `xml:"Reason"`
	Detail FaultDetail `xml:"Detail"`
}

type FaultCode struct {
	Value   string     `xml:"Value"`
	Subcode *FaultCode `xml:"Subcode"`
}

type FaultReason struct {
	Text []string `xml:"Text"`
}

// FaultDetail keeps the detail element verbatim.
type FaultDetail struct {
	Content string `xml:",innerxml"`
}

// Subcode returns the most specific fault code, e.g.
// "wscn:ClientErrorNoImagesAvailable"; this is the machine-readable part of
// the fault.
func (f *Fault) Subcode() string {
	code := &f.Code
	for code.Subcode != nil && code.Subcode.Value != "" {
		code = code.Subcode
	}
	return strings.TrimSpace(code.Value)
}

// ReasonText returns the first human-readable reason.
func (f *Fault) ReasonText() string {
	if len(f.Reason.Text) == 0 {
		return ""
	}
	return strings.TrimSpace(f.Reason.Text[0])
}

func (f *Fault) Error() string {
	s := f.Subcode()
	if r := f.ReasonText(); r != "" {
		s = fmt.Sprintf("%s: %s", s, r)
	}
	if d := strings.TrimSpace(f.Detail.Content); d != "" {
		s = fmt.Sprintf("%s (detail: %s)", s, d)
	}
	return s
}
