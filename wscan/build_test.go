/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package wscan

import (
	"encoding/xml"
	"reflect"
	"strings"
	"testing"

	"github.com/google/wsd-scan-util/media"
)

func defaultOptions() TicketOptions {
	return TicketOptions{
		JobName:     "job",
		UserName:    "me@host",
		Quality:     "100",
		ContentType: "Auto",
		Format:      "exif",
		Size:        "auto",
		Source:      "Platen",
		Color:       []string{"RGB24"},
		Resolution:  []string{"300"},
	}
}

func TestBuildTicketDefaults(t *testing.T) {
	ticket, err := BuildTicket(defaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	autoDetect := true
	expected := &ScanTicket{
		JobDescription: JobDescription{JobName: "job", JobOriginatingUserName: "me@host"},
		DocumentParameters: DocumentParameters{
			Format:                   &FormatValue{true, FormatExif},
			CompressionQualityFactor: &IntValue{true, 100},
			InputSource:              &SourceValue{true, SourcePlaten},
			ContentType:              &ContentValue{true, ContentAuto},
			InputSize:                &InputSize{MustHonor: true, DocumentSizeAutoDetect: &autoDetect},
			MediaSides: MediaSides{
				MediaFront: MediaSide{
					ColorProcessing: &ColorValue{true, ColorRGB24},
					Resolution:      &Resolution{true, 300, 300},
				},
			},
		},
	}
	if !reflect.DeepEqual(ticket, expected) {
		t.Fatalf("expected\n %+v\ngot\n %+v", expected, ticket)
	}
}

func TestBuildTicketMediaBackOnlyForDuplex(t *testing.T) {
	for _, source := range InputSources {
		o := defaultOptions()
		o.Source = string(source)
		ticket, err := BuildTicket(o)
		if err != nil {
			t.Fatal(err)
		}
		hasBack := ticket.DocumentParameters.MediaSides.MediaBack != nil
		if hasBack != (source == SourceADFDuplex) {
			t.Errorf("source %s: MediaBack present = %v", source, hasBack)
		}
	}
}

func TestBuildTicketBackInheritsFront(t *testing.T) {
	o := defaultOptions()
	o.Source = "adfduplex"
	o.Color = []string{"Grayscale8"}
	o.Resolution = []string{"200x400"}
	o.Region = []string{"100x50+1,2 thou"}

	ticket, err := BuildTicket(o)
	if err != nil {
		t.Fatal(err)
	}
	sides := ticket.DocumentParameters.MediaSides
	if sides.MediaBack == nil {
		t.Fatal("expected MediaBack for ADFDuplex")
	}
	if !reflect.DeepEqual(sides.MediaFront, *sides.MediaBack) {
		t.Fatalf("expected back to equal front\nfront %+v\nback %+v", sides.MediaFront, *sides.MediaBack)
	}
	if sides.MediaBack.ColorProcessing.Value != ColorGrayscale8 {
		t.Errorf("back inherited %s, expected the resolved front value", sides.MediaBack.ColorProcessing.Value)
	}
	if r := sides.MediaBack.ScanRegion; r.ScanRegionWidth.Value != 100 || r.ScanRegionYOffset.Value != 2 {
		t.Errorf("unexpected back region %+v", r)
	}
}

func TestBuildTicketBackOverrides(t *testing.T) {
	o := defaultOptions()
	o.Source = "ADFDuplex"
	o.Color = []string{"RGB24", "BlackAndWhite1"}
	o.Resolution = []string{"300", "150"}
	o.Region = []string{"a4", "letter"}

	ticket, err := BuildTicket(o)
	if err != nil {
		t.Fatal(err)
	}
	front := ticket.DocumentParameters.MediaSides.MediaFront
	back := ticket.DocumentParameters.MediaSides.MediaBack
	if front.ColorProcessing.Value != ColorRGB24 || back.ColorProcessing.Value != ColorBlackAndWhite1 {
		t.Errorf("unexpected colors %s / %s", front.ColorProcessing.Value, back.ColorProcessing.Value)
	}
	if back.Resolution.Width != 150 || back.Resolution.Height != 150 {
		t.Errorf("unexpected back resolution %+v", back.Resolution)
	}
	if back.ScanRegion.ScanRegionWidth.Value != 8500 || front.ScanRegion.ScanRegionWidth.Value != 8268 {
		t.Errorf("unexpected regions %+v / %+v", front.ScanRegion, back.ScanRegion)
	}
}

func TestBuildTicketBackValueIgnoredWithoutDuplex(t *testing.T) {
	o := defaultOptions()
	o.Color = []string{"RGB24", "Grayscale8"}
	ticket, err := BuildTicket(o)
	if err != nil {
		t.Fatal(err)
	}
	if ticket.DocumentParameters.MediaSides.MediaBack != nil {
		t.Fatal("unexpected MediaBack for Platen")
	}
}

func TestBuildTicketMustHonor(t *testing.T) {
	o := defaultOptions()
	o.Source = "ADFDuplex"
	o.Region = []string{"1x1 in"}
	o.Optional = []string{"format,ColorProcessing", "ScanRegionXOffset", " inputsize "}

	ticket, err := BuildTicket(o)
	if err != nil {
		t.Fatal(err)
	}

	dp := ticket.DocumentParameters
	honored := map[string]MustHonor{
		FieldFormat:                   dp.Format.MustHonor,
		FieldCompressionQualityFactor: dp.CompressionQualityFactor.MustHonor,
		FieldInputSource:              dp.InputSource.MustHonor,
		FieldContentType:              dp.ContentType.MustHonor,
		FieldInputSize:                dp.InputSize.MustHonor,
	}
	for _, side := range []*MediaSide{&dp.MediaSides.MediaFront, dp.MediaSides.MediaBack} {
		for field, mh := range map[string]MustHonor{
			FieldColorProcessing:   side.ColorProcessing.MustHonor,
			FieldResolution:        side.Resolution.MustHonor,
			FieldScanRegionXOffset: side.ScanRegion.ScanRegionXOffset.MustHonor,
			FieldScanRegionYOffset: side.ScanRegion.ScanRegionYOffset.MustHonor,
			FieldScanRegionWidth:   side.ScanRegion.ScanRegionWidth.MustHonor,
			FieldScanRegionHeight:  side.ScanRegion.ScanRegionHeight.MustHonor,
		} {
			honored[field] = honored[field] || mh
		}
	}

	optional := map[string]bool{
		FieldFormat:            true,
		FieldColorProcessing:   true,
		FieldScanRegionXOffset: true,
		FieldInputSize:         true,
	}
	for _, field := range Fields {
		if bool(honored[field]) == optional[field] {
			t.Errorf("%s: MustHonor = %v, optional = %v", field, honored[field], optional[field])
		}
	}
}

func TestBuildTicketErrors(t *testing.T) {
	testCases := []func(*TicketOptions){
		func(o *TicketOptions) { o.Format = "gif" },
		func(o *TicketOptions) { o.ContentType = "Drawing" },
		func(o *TicketOptions) { o.Source = "Tray" },
		func(o *TicketOptions) { o.Quality = "101" },
		func(o *TicketOptions) { o.Quality = "high" },
		func(o *TicketOptions) { o.Size = "8x10" },
		func(o *TicketOptions) { o.Color = []string{"Sepia"} },
		func(o *TicketOptions) { o.Color = []string{"RGB24", "RGB24", "RGB24"} },
		func(o *TicketOptions) { o.Resolution = []string{"0"} },
		func(o *TicketOptions) { o.Resolution = []string{"300xhigh"} },
		func(o *TicketOptions) { o.Region = []string{"210x297+0,0"} },
		func(o *TicketOptions) { o.Source = "ADFDuplex"; o.Region = []string{"a4", "bogus"} },
		func(o *TicketOptions) { o.Source = "Platen"; o.Region = []string{"a4", "garbage"} },
		func(o *TicketOptions) { o.Color = []string{"RGB24", "Sepia"} },
		func(o *TicketOptions) { o.Resolution = []string{"300", "0"} },
		func(o *TicketOptions) { o.Optional = []string{"Duplex"} },
	}

	for i, modify := range testCases {
		o := defaultOptions()
		modify(&o)
		ticket, err := BuildTicket(o)
		if err == nil {
			t.Errorf("case %d: expected error, got ticket %+v", i, ticket)
		}
		if ticket != nil {
			t.Errorf("case %d: partial ticket returned with error", i)
		}
	}

	o := defaultOptions()
	o.Region = []string{"210x297+0,0"}
	_, err := BuildTicket(o)
	if _, ok := err.(*media.ParseError); !ok {
		t.Errorf("expected *media.ParseError for a malformed region, got %T", err)
	}
}

func TestTicketXML(t *testing.T) {
	o := defaultOptions()
	o.Format = "png"
	o.ContentType = "Text"
	o.Quality = "90"
	o.Size = "a4"
	o.Color = []string{"Grayscale8"}
	o.Region = []string{"100x50+10,20 thou"}
	o.Optional = []string{"ScanRegionXOffset"}

	ticket, err := BuildTicket(o)
	if err != nil {
		t.Fatal(err)
	}
	b, err := xml.Marshal(&ValidateScanTicketRequest{ScanTicket: ticket})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)

	// Fragments in schema order.
	fragments := []string{
		`<wscn:ValidateScanTicketRequest><wscn:ScanTicket><wscn:JobDescription>`,
		`<wscn:JobName>job</wscn:JobName><wscn:JobOriginatingUserName>me@host</wscn:JobOriginatingUserName></wscn:JobDescription>`,
		`<wscn:Format wscn:MustHonor="true">png</wscn:Format>`,
		`<wscn:CompressionQualityFactor wscn:MustHonor="true">90</wscn:CompressionQualityFactor>`,
		`<wscn:InputSource wscn:MustHonor="true">Platen</wscn:InputSource>`,
		`<wscn:ContentType wscn:MustHonor="true">Text</wscn:ContentType>`,
		`<wscn:InputSize wscn:MustHonor="true"><wscn:InputMediaSize><wscn:Width>8268</wscn:Width><wscn:Height>11693</wscn:Height></wscn:InputMediaSize></wscn:InputSize>`,
		`<wscn:MediaSides><wscn:MediaFront><wscn:ScanRegion>`,
		`<wscn:ScanRegionXOffset>10</wscn:ScanRegionXOffset>`,
		`<wscn:ScanRegionYOffset wscn:MustHonor="true">20</wscn:ScanRegionYOffset>`,
		`<wscn:ScanRegionWidth wscn:MustHonor="true">100</wscn:ScanRegionWidth>`,
		`<wscn:ScanRegionHeight wscn:MustHonor="true">50</wscn:ScanRegionHeight></wscn:ScanRegion>`,
		`<wscn:ColorProcessing wscn:MustHonor="true">Grayscale8</wscn:ColorProcessing>`,
		`<wscn:Resolution wscn:MustHonor="true"><wscn:Width>300</wscn:Width><wscn:Height>300</wscn:Height></wscn:Resolution>`,
		`</wscn:MediaFront></wscn:MediaSides></wscn:DocumentParameters></wscn:ScanTicket></wscn:ValidateScanTicketRequest>`,
	}
	rest := s
	for _, f := range fragments {
		i := strings.Index(rest, f)
		if i < 0 {
			t.Fatalf("fragment %s missing or out of order in\n%s", f, s)
		}
		rest = rest[i+len(f):]
	}
	if strings.Contains(s, "MediaBack") || strings.Contains(s, "ImagesToTransfer") {
		t.Errorf("unexpected elements in %s", s)
	}
}
