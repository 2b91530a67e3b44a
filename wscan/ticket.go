/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package wscan represents the WS-Scan (WSD Scan Service) schema described here:
// https://docs.microsoft.com/en-us/windows-hardware/drivers/image/web-services-on-devices-reference
//
// Request types marshal with the "wscn" prefix, which the SOAP envelope
// binds to Namespace. Response types match on local names only.
// Optional elements are pointers marked omitempty.
package wscan

import "encoding/xml"

// Namespace is the WS-Scan schema namespace.
const Namespace = "http://schemas.microsoft.com/windows/2006/08/wdp/scan"

// Prefix is the namespace prefix request elements are written with.
const Prefix = "wscn"

type ScanTicket struct {
	JobDescription     JobDescription     `xml:"wscn:JobDescription"`
	DocumentParameters DocumentParameters `xml:"wscn:DocumentParameters"`
}

type JobDescription struct {
	JobName                string `xml:"wscn:JobName"`
	JobOriginatingUserName string `xml:"wscn:JobOriginatingUserName"`
	JobInformation         string `xml:"wscn:JobInformation,omitempty"`
}

type DocumentParameters struct {
	Format                   *FormatValue  `xml:"wscn:Format,omitempty"`
	CompressionQualityFactor *IntValue     `xml:"wscn:CompressionQualityFactor,omitempty"`
	ImagesToTransfer         *IntValue     `xml:"wscn:ImagesToTransfer,omitempty"`
	InputSource              *SourceValue  `xml:"wscn:InputSource,omitempty"`
	ContentType              *ContentValue `xml:"wscn:ContentType,omitempty"`
	InputSize                *InputSize    `xml:"wscn:InputSize,omitempty"`
	MediaSides               MediaSides    `xml:"wscn:MediaSides"`
}

// MustHonor marks a setting as mandatory rather than advisory. The schema
// default is false, so false is written by omitting the attribute.
type MustHonor bool

func (m MustHonor) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	if !m {
		return xml.Attr{}, nil
	}
	return xml.Attr{Name: name, Value: "true"}, nil
}

type FormatValue struct {
	MustHonor MustHonor `xml:"wscn:MustHonor,attr"`
	Value     Format    `xml:",chardata"`
}

type SourceValue struct {
	MustHonor MustHonor   `xml:"wscn:MustHonor,attr"`
	Value     InputSource `xml:",chardata"`
}

type ContentValue struct {
	MustHonor MustHonor   `xml:"wscn:MustHonor,attr"`
	Value     ContentType `xml:",chardata"`
}

type ColorValue struct {
	MustHonor MustHonor       `xml:"wscn:MustHonor,attr"`
	Value     ColorProcessing `xml:",chardata"`
}

type IntValue struct {
	MustHonor MustHonor `xml:"wscn:MustHonor,attr"`
	Value     int       `xml:",chardata"`
}

type InputSize struct {
	MustHonor              MustHonor       `xml:"wscn:MustHonor,attr"`
	DocumentSizeAutoDetect *bool           `xml:"wscn:DocumentSizeAutoDetect,omitempty"`
	InputMediaSize         *InputMediaSize `xml:"wscn:InputMediaSize,omitempty"`
}

// InputMediaSize is in thousandths of an inch.
type InputMediaSize struct {
	Width  int `xml:"wscn:Width"`
	Height int `xml:"wscn:Height"`
}

type MediaSides struct {
	MediaFront MediaSide  `xml:"wscn:MediaFront"`
	MediaBack  *MediaSide `xml:"wscn:MediaBack,omitempty"`
}

type MediaSide struct {
	ScanRegion      *ScanRegion `xml:"wscn:ScanRegion,omitempty"`
	ColorProcessing *ColorValue `xml:"wscn:ColorProcessing,omitempty"`
	Resolution      *Resolution `xml:"wscn:Resolution,omitempty"`
}

// ScanRegion values are in thousandths of an inch.
type ScanRegion struct {
	ScanRegionXOffset *IntValue `xml:"wscn:ScanRegionXOffset,omitempty"`
	ScanRegionYOffset *IntValue `xml:"wscn:ScanRegionYOffset,omitempty"`
	ScanRegionWidth   IntValue  `xml:"wscn:ScanRegionWidth"`
	ScanRegionHeight  IntValue  `xml:"wscn:ScanRegionHeight"`
}

// Resolution is in pixels per inch.
type Resolution struct {
	MustHonor MustHonor `xml:"wscn:MustHonor,attr"`
	Width     int       `xml:"wscn:Width"`
	Height    int       `xml:"wscn:Height"`
}
