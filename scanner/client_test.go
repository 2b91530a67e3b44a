/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package scanner

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/ioutil"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/wsd-scan-util/soap"
	"github.com/google/wsd-scan-util/wscan"
)

const replyEnvelope = `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope" xmlns:wscn="http://schemas.microsoft.com/windows/2006/08/wdp/scan">
<soap:Body>%s</soap:Body>
</soap:Envelope>`

// fakeScanner answers WS-Scan operations with canned bodies, keyed by the
// action of the request.
type fakeScanner struct {
	bodies   map[string]string
	mtom     []byte
	requests []string
}

func (f *fakeScanner) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	action := params["action"]
	op := strings.TrimPrefix(action, wscan.Namespace+"/")
	b, _ := ioutil.ReadAll(r.Body)
	f.requests = append(f.requests, string(b))

	if op == wscan.OpRetrieveImage && f.mtom != nil {
		w.Header().Set("Content-Type", `multipart/related; type="application/xop+xml"; boundary="MIMEBoundary"; start="<soap@scanner>"`)
		fmt.Fprint(w, "--MIMEBoundary\r\nContent-Type: application/xop+xml\r\nContent-ID: <soap@scanner>\r\n\r\n")
		fmt.Fprintf(w, replyEnvelope, `<wscn:RetrieveImageResponse><wscn:ScanData><xop:Include xmlns:xop="http://www.w3.org/2004/08/xop/include" href="cid:image@scanner"/></wscn:ScanData></wscn:RetrieveImageResponse>`)
		fmt.Fprint(w, "\r\n--MIMEBoundary\r\nContent-Type: image/jpeg\r\nContent-Transfer-Encoding: binary\r\nContent-ID: <image@scanner>\r\n\r\n")
		w.Write(f.mtom)
		fmt.Fprint(w, "\r\n--MIMEBoundary--\r\n")
		return
	}

	body, exists := f.bodies[op]
	if !exists {
		http.Error(w, "unexpected action "+action, http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", soap.ContentType)
	if strings.Contains(body, "Fault>") {
		w.WriteHeader(http.StatusInternalServerError)
	}
	fmt.Fprintf(w, replyEnvelope, body)
}

func newFakeScanner(t *testing.T, f *fakeScanner) (*Client, func()) {
	server := httptest.NewServer(f)
	client, err := NewClient(server.URL+"/wsd/scan", server.Client())
	if err != nil {
		server.Close()
		t.Fatal(err)
	}
	return client, server.Close
}

var scanBodies = map[string]string{
	wscan.OpValidateScanTicket: `<wscn:ValidateScanTicketResponse><wscn:ValidationInfo><wscn:ValidTicket>true</wscn:ValidTicket></wscn:ValidationInfo></wscn:ValidateScanTicketResponse>`,
	wscan.OpCreateScanJob:      `<wscn:CreateScanJobResponse><wscn:JobId>42</wscn:JobId><wscn:JobToken>tok42</wscn:JobToken><wscn:ImageInformation><wscn:MediaFrontImageInfo><wscn:PixelsPerLine>2550</wscn:PixelsPerLine><wscn:NumberOfLines>3300</wscn:NumberOfLines><wscn:BytesPerLine>7650</wscn:BytesPerLine></wscn:MediaFrontImageInfo></wscn:ImageInformation></wscn:CreateScanJobResponse>`,
}

func TestNewClientRejectsBadURLs(t *testing.T) {
	for _, endpoint := range []string{"", "scanner.local", "ftp://scanner/scan", "http:///scan", "://"} {
		if _, err := NewClient(endpoint, nil); err == nil {
			t.Errorf("accepted %q", endpoint)
		}
	}
	if _, err := NewClient("https://192.168.1.20:5358/wsd/scan", nil); err != nil {
		t.Error(err)
	}
}

func TestClientScanInline(t *testing.T) {
	image := []byte("\x89PNG\r\n\x1a\ninline image")
	bodies := map[string]string{
		wscan.OpRetrieveImage: fmt.Sprintf("<wscn:RetrieveImageResponse><wscn:ScanData>\n%s\n</wscn:ScanData></wscn:RetrieveImageResponse>",
			base64.StdEncoding.EncodeToString(image)),
	}
	for k, v := range scanBodies {
		bodies[k] = v
	}
	f := &fakeScanner{bodies: bodies}
	client, done := newFakeScanner(t, f)
	defer done()

	ticket, err := wscan.BuildTicket(wscan.TicketOptions{
		JobName:     "job",
		UserName:    "me@host",
		Quality:     "90",
		ContentType: "Photo",
		Format:      "png",
		Size:        "a4",
		Source:      "Platen",
		Color:       []string{"RGB24"},
		Resolution:  []string{"300"},
	})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	result, err := Scan(context.Background(), client, ticket, "page", &out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), image) {
		t.Errorf("wrote %q, expected %q", out.Bytes(), image)
	}
	if result.JobID != 42 {
		t.Errorf("job id %d", result.JobID)
	}

	if len(f.requests) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(f.requests))
	}
	retrieve := f.requests[2]
	for _, fragment := range []string{
		"<wscn:JobId>42</wscn:JobId>",
		"<wscn:JobToken>tok42</wscn:JobToken>",
		"<wscn:DocumentName>page</wscn:DocumentName>",
	} {
		if !strings.Contains(retrieve, fragment) {
			t.Errorf("RetrieveImage request lacks %s:\n%s", fragment, retrieve)
		}
	}
}

func TestClientScanMTOM(t *testing.T) {
	image := []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00binary")
	f := &fakeScanner{bodies: scanBodies, mtom: image}
	client, done := newFakeScanner(t, f)
	defer done()

	var out bytes.Buffer
	if _, err := Scan(context.Background(), client, &wscan.ScanTicket{}, "page", &out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), image) {
		t.Errorf("wrote %q, expected %q", out.Bytes(), image)
	}
}

func TestClientRetrieveFault(t *testing.T) {
	bodies := map[string]string{
		wscan.OpRetrieveImage: `<soap:Fault><soap:Code><soap:Value>soap:Receiver</soap:Value><soap:Subcode><soap:Value>wscn:ServerErrorNotAcceptingJobs</soap:Value></soap:Subcode></soap:Code><soap:Reason><soap:Text xml:lang="en">busy</soap:Text></soap:Reason></soap:Fault>`,
	}
	for k, v := range scanBodies {
		bodies[k] = v
	}
	client, done := newFakeScanner(t, &fakeScanner{bodies: bodies})
	defer done()

	var out bytes.Buffer
	_, err := Scan(context.Background(), client, &wscan.ScanTicket{}, "page", &out)
	var fault *soap.Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected a fault, got %v", err)
	}
	if fault.Subcode() != "wscn:ServerErrorNotAcceptingJobs" {
		t.Errorf("subcode %q", fault.Subcode())
	}
	if out.Len() != 0 {
		t.Errorf("wrote %d bytes", out.Len())
	}
}

func TestClientGetScannerElements(t *testing.T) {
	f := &fakeScanner{bodies: map[string]string{
		wscan.OpGetScannerElements: `<wscn:GetScannerElementsResponse><wscn:ScannerElements>
<wscn:ElementData Name="wscn:ScannerDescription" Valid="true"><wscn:ScannerDescription>
  <wscn:ScannerName xml:lang="en">Office MFP</wscn:ScannerName>
  <wscn:ScannerLocation xml:lang="en">2nd floor</wscn:ScannerLocation>
</wscn:ScannerDescription></wscn:ElementData>
<wscn:ElementData Name="wscn:ScannerStatus" Valid="true"><wscn:ScannerStatus>
  <wscn:ScannerState>Idle</wscn:ScannerState>
  <wscn:ScannerStateReasons><wscn:ScannerStateReason>None</wscn:ScannerStateReason></wscn:ScannerStateReasons>
</wscn:ScannerStatus></wscn:ElementData>
<wscn:ElementData Name="wscn:ScannerConfiguration" Valid="true"><wscn:ScannerConfiguration>
  <wscn:DeviceSettings>
    <wscn:FormatsSupported><wscn:FormatValue>jfif</wscn:FormatValue><wscn:FormatValue>pdf-a</wscn:FormatValue></wscn:FormatsSupported>
    <wscn:DocumentSizeAutoDetectSupported>true</wscn:DocumentSizeAutoDetectSupported>
  </wscn:DeviceSettings>
  <wscn:Platen>
    <wscn:PlatenColor><wscn:ColorEntry>RGB24</wscn:ColorEntry><wscn:ColorEntry>Grayscale8</wscn:ColorEntry></wscn:PlatenColor>
    <wscn:PlatenResolutions><wscn:Widths><wscn:Width>300</wscn:Width><wscn:Width>600</wscn:Width></wscn:Widths><wscn:Heights><wscn:Height>300</wscn:Height></wscn:Heights></wscn:PlatenResolutions>
  </wscn:Platen>
</wscn:ScannerConfiguration></wscn:ElementData>
</wscn:ScannerElements></wscn:GetScannerElementsResponse>`,
	}}
	client, done := newFakeScanner(t, f)
	defer done()

	elements, err := client.GetScannerElements(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}
	if d := elements[0].ScannerDescription; d == nil || d.ScannerName.String() != "Office MFP" || d.ScannerLocation.String() != "2nd floor" {
		t.Errorf("unexpected description %+v", elements[0].ScannerDescription)
	}
	if s := elements[1].ScannerStatus; s == nil || s.ScannerState != "Idle" || len(s.ScannerStateReasons) != 1 {
		t.Errorf("unexpected status %+v", elements[1].ScannerStatus)
	}
	c := elements[2].ScannerConfiguration
	if c == nil || c.Platen == nil {
		t.Fatalf("unexpected configuration %+v", c)
	}
	if len(c.FormatsSupported) != 2 || c.FormatsSupported[1] != wscan.FormatPDFA || !c.DocumentSizeAutoDetectSupported {
		t.Errorf("unexpected device settings %+v", c)
	}
	if len(c.Platen.Colors) != 2 || len(c.Platen.ResolutionWidths) != 2 || c.Platen.ResolutionHeights[0] != 300 {
		t.Errorf("unexpected platen %+v", c.Platen)
	}

	request := f.requests[0]
	for _, name := range []string{wscan.ElementScannerDescription, wscan.ElementScannerConfiguration, wscan.ElementScannerStatus} {
		if !strings.Contains(request, "<wscn:Name>"+name+"</wscn:Name>") {
			t.Errorf("request does not ask for %s:\n%s", name, request)
		}
	}
}

func TestClientJobs(t *testing.T) {
	f := &fakeScanner{bodies: map[string]string{
		wscan.OpGetActiveJobs: `<wscn:GetActiveJobsResponse><wscn:ActiveJobs>
<wscn:JobSummary><wscn:JobId>3</wscn:JobId><wscn:JobName>scan-1</wscn:JobName><wscn:JobOriginatingUserName>a@b</wscn:JobOriginatingUserName><wscn:JobState>Processing</wscn:JobState><wscn:ScansCompleted>0</wscn:ScansCompleted></wscn:JobSummary>
</wscn:ActiveJobs></wscn:GetActiveJobsResponse>`,
		wscan.OpCancelJob: `<wscn:CancelJobResponse/>`,
	}}
	client, done := newFakeScanner(t, f)
	defer done()

	jobs, err := client.GetActiveJobs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].JobID != 3 || jobs[0].JobState != "Processing" {
		t.Errorf("unexpected jobs %+v", jobs)
	}

	if err := client.CancelJob(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.requests[1], "<wscn:CancelJobRequest><wscn:JobId>3</wscn:JobId></wscn:CancelJobRequest>") {
		t.Errorf("unexpected CancelJob request:\n%s", f.requests[1])
	}
}
