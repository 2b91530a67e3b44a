/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package wscan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/wsd-scan-util/media"
)

// Side indexes into the per-side option lists.
const (
	Front = 0
	Back  = 1
)

// TicketOptions are the resolved, still textual, scan parameters.
//
// Color, Resolution and Region are per-side lists: index 0 is the front,
// index 1 the back. A missing back value inherits the resolved front value.
type TicketOptions struct {
	JobName     string
	UserName    string
	Quality     string
	ContentType string
	Format      string
	Size        string
	Source      string
	Color       []string
	Resolution  []string
	Region      []string

	// Optional lists element names sent without MustHonor.
	Optional []string
}

// sideSettings is one resolved side, before it is attached to the ticket.
type sideSettings struct {
	color      ColorProcessing
	resolution *Resolution
	region     *media.Region
}

// BuildTicket maps options onto a ScanTicket. It fails without a partial
// ticket if any value is malformed.
func BuildTicket(o TicketOptions) (*ScanTicket, error) {
	optional, err := optionalSet(o.Optional)
	if err != nil {
		return nil, err
	}
	honor := func(field string) MustHonor {
		_, isOptional := optional[field]
		return MustHonor(!isOptional)
	}

	format, err := parseFormat(o.Format)
	if err != nil {
		return nil, err
	}
	contentType, err := parseContentType(o.ContentType)
	if err != nil {
		return nil, err
	}
	source, err := parseInputSource(o.Source)
	if err != nil {
		return nil, err
	}
	quality, err := parseQuality(o.Quality)
	if err != nil {
		return nil, err
	}
	size, err := media.ParseSize(o.Size)
	if err != nil {
		return nil, err
	}

	for name, values := range map[string][]string{"color": o.Color, "ppi": o.Resolution, "region": o.Region} {
		if len(values) > 2 {
			return nil, fmt.Errorf("at most 2 %s values (front, back) are accepted, got %d", name, len(values))
		}
	}

	front, err := resolveSide(o, Front, nil)
	if err != nil {
		return nil, err
	}
	// Back values are parsed even when they are not sent, so a malformed
	// one always fails.
	back, err := resolveSide(o, Back, front)
	if err != nil {
		return nil, err
	}

	ticket := &ScanTicket{
		JobDescription: JobDescription{
			JobName:                o.JobName,
			JobOriginatingUserName: o.UserName,
		},
		DocumentParameters: DocumentParameters{
			Format:                   &FormatValue{honor(FieldFormat), format},
			CompressionQualityFactor: &IntValue{honor(FieldCompressionQualityFactor), quality},
			InputSource:              &SourceValue{honor(FieldInputSource), source},
			ContentType:              &ContentValue{honor(FieldContentType), contentType},
			InputSize:                newInputSize(size, honor(FieldInputSize)),
		},
	}
	ticket.DocumentParameters.MediaSides.MediaFront = *front.mediaSide(honor)

	if source == SourceADFDuplex {
		ticket.DocumentParameters.MediaSides.MediaBack = back.mediaSide(honor)
	}

	return ticket, nil
}

// resolveSide resolves the settings of one side. Values absent for this
// side are taken from fallback, the already resolved previous side.
func resolveSide(o TicketOptions, side int, fallback *sideSettings) (*sideSettings, error) {
	s := &sideSettings{}
	if fallback != nil {
		*s = *fallback
	}

	if side < len(o.Color) {
		color, err := parseColorProcessing(o.Color[side])
		if err != nil {
			return nil, err
		}
		s.color = color
	}
	if side < len(o.Resolution) {
		resolution, err := parseResolution(o.Resolution[side])
		if err != nil {
			return nil, err
		}
		s.resolution = resolution
	}
	if side < len(o.Region) {
		region, err := media.ParseRegion(o.Region[side])
		if err != nil {
			return nil, err
		}
		s.region = &region
	}

	return s, nil
}

func (s *sideSettings) mediaSide(honor func(string) MustHonor) *MediaSide {
	side := &MediaSide{}
	if s.color != "" {
		side.ColorProcessing = &ColorValue{honor(FieldColorProcessing), s.color}
	}
	if s.resolution != nil {
		r := *s.resolution
		r.MustHonor = honor(FieldResolution)
		side.Resolution = &r
	}
	if s.region != nil {
		side.ScanRegion = &ScanRegion{
			ScanRegionXOffset: &IntValue{honor(FieldScanRegionXOffset), s.region.XOffset},
			ScanRegionYOffset: &IntValue{honor(FieldScanRegionYOffset), s.region.YOffset},
			ScanRegionWidth:   IntValue{honor(FieldScanRegionWidth), s.region.Width},
			ScanRegionHeight:  IntValue{honor(FieldScanRegionHeight), s.region.Height},
		}
	}
	return side
}

func newInputSize(size media.Size, honor MustHonor) *InputSize {
	is := &InputSize{MustHonor: honor}
	if size.Auto {
		autoDetect := true
		is.DocumentSizeAutoDetect = &autoDetect
	} else {
		is.InputMediaSize = &InputMediaSize{Width: size.Width, Height: size.Height}
	}
	return is
}

// optionalSet canonicalizes the optional field names. Names match
// case-insensitively and may be comma-separated.
func optionalSet(names []string) (map[string]struct{}, error) {
	canonical := make(map[string]string, len(Fields))
	for _, f := range Fields {
		canonical[strings.ToLower(f)] = f
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		for _, n := range strings.Split(name, ",") {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			f, exists := canonical[strings.ToLower(n)]
			if !exists {
				return nil, fmt.Errorf("unknown optional field %q, expected one of %s", n, strings.Join(Fields, ", "))
			}
			set[f] = struct{}{}
		}
	}
	return set, nil
}

func parseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", enumError("format", s, Formats)
}

func parseContentType(s string) (ContentType, error) {
	for _, c := range ContentTypes {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", enumError("content type", s, ContentTypes)
}

func parseInputSource(s string) (InputSource, error) {
	for _, i := range InputSources {
		if strings.EqualFold(s, string(i)) {
			return i, nil
		}
	}
	return "", enumError("input source", s, InputSources)
}

func parseColorProcessing(s string) (ColorProcessing, error) {
	for _, c := range ColorProcessings {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", enumError("color processing", s, ColorProcessings)
}

func enumError[T ~string](what, value string, valid []T) error {
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	return fmt.Errorf("invalid %s %q, expected one of %s", what, value, strings.Join(names, ", "))
}

func parseQuality(s string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || q < 0 || q > 100 {
		return 0, fmt.Errorf("invalid quality %q, expected an integer from 0 to 100", s)
	}
	return q, nil
}

// parseResolution accepts "N" or "WxH", in pixels per inch.
func parseResolution(s string) (*Resolution, error) {
	ws, hs, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !found {
		hs = ws
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return nil, fmt.Errorf("invalid resolution %q, expected N or WIDTHxHEIGHT pixels per inch", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return nil, fmt.Errorf("invalid resolution %q, expected N or WIDTHxHEIGHT pixels per inch", s)
	}
	return &Resolution{Width: w, Height: h}, nil
}
