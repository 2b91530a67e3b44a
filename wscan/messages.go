/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package wscan

import "encoding/xml"

// Operation names; the SOAP action of each is Namespace + "/" + name.
const (
	OpValidateScanTicket = "ValidateScanTicket"
	OpCreateScanJob      = "CreateScanJob"
	OpRetrieveImage      = "RetrieveImage"
	OpGetScannerElements = "GetScannerElements"
	OpGetActiveJobs      = "GetActiveJobs"
	OpCancelJob          = "CancelJob"
)

// Action returns the WS-Addressing action URI of a WS-Scan operation.
func Action(op string) string {
	return Namespace + "/" + op
}

type ValidateScanTicketRequest struct {
	XMLName    xml.Name    `xml:"wscn:ValidateScanTicketRequest"`
	ScanTicket *ScanTicket `xml:"wscn:ScanTicket"`
}

type ValidateScanTicketResponse struct {
	XMLName        xml.Name       `xml:"ValidateScanTicketResponse"`
	ValidationInfo ValidationInfo `xml:"ValidationInfo"`
}

type ValidationInfo struct {
	ValidTicket      bool              `xml:"ValidTicket"`
	ImageInformation *ImageInformation `xml:"ImageInformation"`
}

type ImageInformation struct {
	MediaFrontImageInfo *ImageInfo `xml:"MediaFrontImageInfo"`
	MediaBackImageInfo  *ImageInfo `xml:"MediaBackImageInfo"`
}

type ImageInfo struct {
	PixelsPerLine int `xml:"PixelsPerLine"`
	NumberOfLines int `xml:"NumberOfLines"`
	BytesPerLine  int `xml:"BytesPerLine"`
}

type CreateScanJobRequest struct {
	XMLName          xml.Name    `xml:"wscn:CreateScanJobRequest"`
	ScanIdentifier   string      `xml:"wscn:ScanIdentifier,omitempty"`
	DestinationToken string      `xml:"wscn:DestinationToken,omitempty"`
	ScanTicket       *ScanTicket `xml:"wscn:ScanTicket"`
}

type CreateScanJobResponse struct {
	XMLName          xml.Name          `xml:"CreateScanJobResponse"`
	JobID            int               `xml:"JobId"`
	JobToken         string            `xml:"JobToken"`
	ImageInformation *ImageInformation `xml:"ImageInformation"`
}

type RetrieveImageRequest struct {
	XMLName             xml.Name            `xml:"wscn:RetrieveImageRequest"`
	JobID               int                 `xml:"wscn:JobId"`
	JobToken            string              `xml:"wscn:JobToken"`
	DocumentDescription DocumentDescription `xml:"wscn:DocumentDescription"`
}

type DocumentDescription struct {
	DocumentName string `xml:"wscn:DocumentName"`
}

type RetrieveImageResponse struct {
	XMLName  xml.Name `xml:"RetrieveImageResponse"`
	ScanData ScanData `xml:"ScanData"`
}

// ScanData holds the image either inline as base64 or as an XOP reference
// to a MIME part of the response.
type ScanData struct {
	Include *XOPInclude `xml:"Include"`
	Data    string      `xml:",chardata"`
}

type XOPInclude struct {
	Href string `xml:"href,attr"`
}

// Scanner element names for GetScannerElements.
const (
	ElementScannerDescription   = "wscn:ScannerDescription"
	ElementScannerConfiguration = "wscn:ScannerConfiguration"
	ElementScannerStatus        = "wscn:ScannerStatus"
)

type GetScannerElementsRequest struct {
	XMLName           xml.Name `xml:"wscn:GetScannerElementsRequest"`
	RequestedElements []string `xml:"wscn:RequestedElements>wscn:Name"`
}

type GetScannerElementsResponse struct {
	XMLName     xml.Name      `xml:"GetScannerElementsResponse"`
	ElementData []ElementData `xml:"ScannerElements>ElementData"`
}

type ElementData struct {
	Name                 string                `xml:"Name,attr"`
	Valid                bool                  `xml:"Valid,attr"`
	ScannerDescription   *ScannerDescription   `xml:"ScannerDescription"`
	ScannerConfiguration *ScannerConfiguration `xml:"ScannerConfiguration"`
	ScannerStatus        *ScannerStatus        `xml:"ScannerStatus"`
}

type LocalizedString struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

type LocalizedStrings []LocalizedString

// String returns the first value, which is the device default language.
func (ls LocalizedStrings) String() string {
	if len(ls) == 0 {
		return ""
	}
	return ls[0].Value
}

type ScannerDescription struct {
	ScannerName     LocalizedStrings `xml:"ScannerName"`
	ScannerInfo     LocalizedStrings `xml:"ScannerInfo"`
	ScannerLocation LocalizedStrings `xml:"ScannerLocation"`
}

type ScannerStatus struct {
	ScannerCurrentTime  string   `xml:"ScannerCurrentTime"`
	ScannerState        string   `xml:"ScannerState"`
	ScannerStateReasons []string `xml:"ScannerStateReasons>ScannerStateReason"`
}

type ScannerConfiguration struct {
	FormatsSupported                []Format      `xml:"DeviceSettings>FormatsSupported>FormatValue"`
	ContentTypesSupported           []ContentType `xml:"DeviceSettings>ContentTypesSupported>ContentTypeValue"`
	DocumentSizeAutoDetectSupported bool          `xml:"DeviceSettings>DocumentSizeAutoDetectSupported"`
	Platen                          *Platen       `xml:"Platen"`
	ADF                             *ADF          `xml:"ADF"`
}

type Dimensions struct {
	Width  int `xml:"Width"`
	Height int `xml:"Height"`
}

type Platen struct {
	Colors            []ColorProcessing `xml:"PlatenColor>ColorEntry"`
	MinimumSize       *Dimensions       `xml:"PlatenMinimumSize"`
	MaximumSize       *Dimensions       `xml:"PlatenMaximumSize"`
	OpticalResolution *Dimensions       `xml:"PlatenOpticalResolution"`
	ResolutionWidths  []int             `xml:"PlatenResolutions>Widths>Width"`
	ResolutionHeights []int             `xml:"PlatenResolutions>Heights>Height"`
}

type ADF struct {
	SupportsDuplex bool     `xml:"ADFSupportsDuplex"`
	Front          *ADFSide `xml:"ADFFront"`
	Back           *ADFSide `xml:"ADFBack"`
}

type ADFSide struct {
	Colors            []ColorProcessing `xml:"ADFColor>ColorEntry"`
	MinimumSize       *Dimensions       `xml:"ADFMinimumSize"`
	MaximumSize       *Dimensions       `xml:"ADFMaximumSize"`
	OpticalResolution *Dimensions       `xml:"ADFOpticalResolution"`
	ResolutionWidths  []int             `xml:"ADFResolutions>Widths>Width"`
	ResolutionHeights []int             `xml:"ADFResolutions>Heights>Height"`
}

type GetActiveJobsRequest struct {
	XMLName xml.Name `xml:"wscn:GetActiveJobsRequest"`
}

type GetActiveJobsResponse struct {
	XMLName xml.Name     `xml:"GetActiveJobsResponse"`
	Jobs    []JobSummary `xml:"ActiveJobs>JobSummary"`
}

type JobSummary struct {
	JobID                  int      `xml:"JobId"`
	JobName                string   `xml:"JobName"`
	JobOriginatingUserName string   `xml:"JobOriginatingUserName"`
	JobState               string   `xml:"JobState"`
	JobStateReasons        []string `xml:"JobStateReasons>JobStateReason"`
	ScansCompleted         int      `xml:"ScansCompleted"`
}

type CancelJobRequest struct {
	XMLName xml.Name `xml:"wscn:CancelJobRequest"`
	JobID   int      `xml:"wscn:JobId"`
}

type CancelJobResponse struct {
	XMLName xml.Name `xml:"CancelJobResponse"`
}
