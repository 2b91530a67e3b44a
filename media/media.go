/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

// Package media parses the textual paper size and scan region arguments
// and normalizes them to thousandths of an inch, the only length unit
// used on the WS-Scan wire.
//
// Grammar (tokens are separated by whitespace, names are case-insensitive):
//
//	size   = "auto" | paper | extent SP unit
//	region = ( paper | extent ) [ "+" number "," number ] [ SP unit ]
//	extent = number "x" number
//	number = non-negative decimal, e.g. 210 or 8.5
//	unit   = "mm" | "cm" | "in" | "pt" | "thou"
//	paper  = "a3" | "a4" | "letter" | ... (see Papers)
//
// A unit is required whenever a number is given. A region without an
// offset starts at 0,0.
package media

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	// SizeAuto asks the scanner to detect the document size.
	SizeAuto = "auto"

	// Thousandths of an inch per inch.
	thouPerInch = 1000

	// Largest length accepted, in thousandths of an inch.
	MaxThousandths = math.MaxInt32
)

// Inches per unit.
var units = map[string]float64{
	"mm":   1 / 25.4,
	"cm":   1 / 2.54,
	"in":   1,
	"pt":   1.0 / 72,
	"thou": 1.0 / thouPerInch,
}

type paper struct {
	width, height float64
	unit          string
}

var papers = map[string]paper{
	"a3":        {297, 420, "mm"},
	"a4":        {210, 297, "mm"},
	"a5":        {148, 210, "mm"},
	"a6":        {105, 148, "mm"},
	"b4":        {250, 353, "mm"},
	"b5":        {176, 250, "mm"},
	"letter":    {8.5, 11, "in"},
	"legal":     {8.5, 14, "in"},
	"executive": {7.25, 10.5, "in"},
	"tabloid":   {11, 17, "in"},
}

// Region is a scan region in thousandths of an inch.
type Region struct {
	Width   int
	Height  int
	XOffset int
	YOffset int
}

// Size is a document size in thousandths of an inch, or auto-detect.
type Size struct {
	Auto   bool
	Width  int
	Height int
}

// ParseError describes a size or region string that does not follow the grammar.
type ParseError struct {
	Kind   string // "size" or "region"
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Input, e.Reason)
}

// Units returns the accepted unit names, sorted.
func Units() []string {
	names := make([]string, 0, len(units))
	for name := range units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Papers returns the accepted paper names, sorted.
func Papers() []string {
	names := make([]string, 0, len(papers))
	for name := range papers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToThousandths converts value, expressed in unit, to thousandths of an inch.
func ToThousandths(value float64, unit string) (int, error) {
	perUnit, exists := units[strings.ToLower(unit)]
	if !exists {
		return 0, fmt.Errorf("unknown unit %q, expected one of %s", unit, strings.Join(Units(), ", "))
	}
	thou := math.Round(value * perUnit * thouPerInch)
	if math.IsNaN(thou) || thou > MaxThousandths || thou < -MaxThousandths {
		return 0, fmt.Errorf("%v %s is out of range", value, unit)
	}
	return int(thou), nil
}

// ParseSize parses a document size: "auto", a paper name, or "WIDTHxHEIGHT UNIT".
func ParseSize(s string) (Size, error) {
	fail := func(format string, args ...interface{}) (Size, error) {
		return Size{}, &ParseError{"size", s, fmt.Sprintf(format, args...)}
	}

	body, unit, err := splitUnit(s)
	if err != nil {
		return fail("%s", err)
	}
	if strings.EqualFold(body, SizeAuto) {
		if unit != "" {
			return fail("auto takes no unit")
		}
		return Size{Auto: true}, nil
	}
	if strings.Contains(body, "+") {
		return fail("a size has no offset")
	}

	w, h, err := parseExtent(body, unit)
	if err != nil {
		return fail("%s", err)
	}
	return Size{Width: w, Height: h}, nil
}

// ParseRegion parses a scan region: "WIDTHxHEIGHT+X,Y UNIT", or a paper
// name optionally followed by "+X,Y UNIT".
func ParseRegion(s string) (Region, error) {
	fail := func(format string, args ...interface{}) (Region, error) {
		return Region{}, &ParseError{"region", s, fmt.Sprintf(format, args...)}
	}

	body, unit, err := splitUnit(s)
	if err != nil {
		return fail("%s", err)
	}

	extent, offset := body, ""
	if i := strings.Index(body, "+"); i >= 0 {
		extent, offset = body[:i], body[i+1:]
		if offset == "" {
			return fail("missing offset after +")
		}
	}

	var r Region
	if r.Width, r.Height, err = parseExtent(extent, unit); err != nil {
		return fail("%s", err)
	}

	if offset != "" {
		xs, ys, found := strings.Cut(offset, ",")
		if !found {
			return fail("offset %q is not X,Y", offset)
		}
		if r.XOffset, err = parseLength(xs, unit); err != nil {
			return fail("x offset: %s", err)
		}
		if r.YOffset, err = parseLength(ys, unit); err != nil {
			return fail("y offset: %s", err)
		}
	}

	return r, nil
}

// splitUnit separates the trailing unit token, if any.
func splitUnit(s string) (string, string, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return fields[0], "", nil
	case 2:
		return fields[0], fields[1], nil
	case 0:
		return "", "", fmt.Errorf("empty")
	default:
		return "", "", fmt.Errorf("expected at most one unit after the dimensions")
	}
}

// parseExtent resolves "WxH" in unit, or a paper name.
func parseExtent(s, unit string) (int, int, error) {
	if p, exists := papers[strings.ToLower(s)]; exists {
		w, _ := ToThousandths(p.width, p.unit)
		h, _ := ToThousandths(p.height, p.unit)
		return w, h, nil
	}

	ws, hs, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		return 0, 0, fmt.Errorf("%q is neither WIDTHxHEIGHT nor a paper name (%s)", s, strings.Join(Papers(), ", "))
	}
	w, err := parseLength(ws, unit)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %s", err)
	}
	h, err := parseLength(hs, unit)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %s", err)
	}
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("width and height must be positive")
	}
	return w, h, nil
}

func parseLength(s, unit string) (int, error) {
	if unit == "" {
		return 0, fmt.Errorf("missing unit (%s)", strings.Join(Units(), ", "))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q is negative", s)
	}
	return ToThousandths(v, unit)
}
