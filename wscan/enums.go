/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package wscan

type Format string

const (
	FormatDIB                    Format = "dib"
	FormatExif                   Format = "exif"
	FormatJBIG                   Format = "jbig"
	FormatJFIF                   Format = "jfif"
	FormatJPEG2K                 Format = "jpeg2k"
	FormatPDFA                   Format = "pdf-a"
	FormatPNG                    Format = "png"
	FormatTIFFSingleUncompressed Format = "tiff-single-uncompressed"
	FormatTIFFSingleG4           Format = "tiff-single-g4"
	FormatTIFFSingleG3MH         Format = "tiff-single-g3mh"
	FormatTIFFSingleJPEGTN2      Format = "tiff-single-jpeg-tn2"
	FormatTIFFMultiUncompressed  Format = "tiff-multi-uncompressed"
	FormatTIFFMultiG4            Format = "tiff-multi-g4"
	FormatTIFFMultiG3MH          Format = "tiff-multi-g3mh"
	FormatTIFFMultiJPEGTN2       Format = "tiff-multi-jpeg-tn2"
	FormatXPS                    Format = "xps"
)

var Formats = []Format{
	FormatDIB, FormatExif, FormatJBIG, FormatJFIF, FormatJPEG2K, FormatPDFA, FormatPNG,
	FormatTIFFSingleUncompressed, FormatTIFFSingleG4, FormatTIFFSingleG3MH, FormatTIFFSingleJPEGTN2,
	FormatTIFFMultiUncompressed, FormatTIFFMultiG4, FormatTIFFMultiG3MH, FormatTIFFMultiJPEGTN2,
	FormatXPS,
}

type ContentType string

const (
	ContentAuto     ContentType = "Auto"
	ContentText     ContentType = "Text"
	ContentPhoto    ContentType = "Photo"
	ContentHalftone ContentType = "Halftone"
	ContentMixed    ContentType = "Mixed"
)

var ContentTypes = []ContentType{ContentAuto, ContentText, ContentPhoto, ContentHalftone, ContentMixed}

type InputSource string

const (
	SourceAuto      InputSource = "Auto"
	SourceADF       InputSource = "ADF"
	SourceADFDuplex InputSource = "ADFDuplex"
	SourceFilm      InputSource = "Film"
	SourcePlaten    InputSource = "Platen"
)

var InputSources = []InputSource{SourceAuto, SourceADF, SourceADFDuplex, SourceFilm, SourcePlaten}

type ColorProcessing string

const (
	ColorBlackAndWhite1 ColorProcessing = "BlackAndWhite1"
	ColorGrayscale4     ColorProcessing = "Grayscale4"
	ColorGrayscale8     ColorProcessing = "Grayscale8"
	ColorGrayscale16    ColorProcessing = "Grayscale16"
	ColorRGB24          ColorProcessing = "RGB24"
	ColorRGB48          ColorProcessing = "RGB48"
	ColorRGBa32         ColorProcessing = "RGBa32"
	ColorRGBa64         ColorProcessing = "RGBa64"
)

var ColorProcessings = []ColorProcessing{
	ColorBlackAndWhite1, ColorGrayscale4, ColorGrayscale8, ColorGrayscale16,
	ColorRGB24, ColorRGB48, ColorRGBa32, ColorRGBa64,
}

// Element names accepted in the optional list. A field named here is sent
// without MustHonor.
const (
	FieldFormat                   = "Format"
	FieldCompressionQualityFactor = "CompressionQualityFactor"
	FieldInputSource              = "InputSource"
	FieldContentType              = "ContentType"
	FieldInputSize                = "InputSize"
	FieldColorProcessing          = "ColorProcessing"
	FieldResolution               = "Resolution"
	FieldScanRegionXOffset        = "ScanRegionXOffset"
	FieldScanRegionYOffset        = "ScanRegionYOffset"
	FieldScanRegionWidth          = "ScanRegionWidth"
	FieldScanRegionHeight         = "ScanRegionHeight"
)

var Fields = []string{
	FieldFormat, FieldCompressionQualityFactor, FieldInputSource, FieldContentType, FieldInputSize,
	FieldColorProcessing, FieldResolution,
	FieldScanRegionXOffset, FieldScanRegionYOffset, FieldScanRegionWidth, FieldScanRegionHeight,
}
