/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/

package soap

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/wsd-scan-util/lib"
	"github.com/google/wsd-scan-util/log"
)

// Debug dumps are cut after this many bytes.
const maxDebugDump = 64 * 1024

// Client calls SOAP operations on one HTTP endpoint.
type Client struct {
	url        string
	hc         *http.Client
	namespaces []xml.Attr
}

// NewClient returns a client that POSTs to url. namespaces are declared on
// every request envelope, for the prefixes used by request bodies.
func NewClient(url string, hc *http.Client, namespaces ...xml.Attr) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		url:        url,
		hc:         hc,
		namespaces: namespaces,
	}
}

// URL returns the endpoint this client posts to.
func (c *Client) URL() string {
	return c.url
}

// Attachments are the non-root MIME parts of an MTOM response, by Content-ID
// without angle brackets.
type Attachments map[string][]byte

// Resolve returns the part referenced by an XOP href of the form "cid:...".
func (a Attachments) Resolve(href string) ([]byte, error) {
	if !strings.HasPrefix(href, "cid:") {
		return nil, fmt.Errorf("unsupported XOP reference %q", href)
	}
	id, err := url.PathUnescape(strings.TrimPrefix(href, "cid:"))
	if err != nil {
		return nil, fmt.Errorf("malformed XOP reference %q: %s", href, err)
	}
	data, exists := a[id]
	if !exists {
		return nil, fmt.Errorf("XOP reference %q does not match any MIME part", href)
	}
	return data, nil
}

// Call invokes action on the endpoint. The body element of the reply is
// decoded into response, which may be nil when no reply body is expected.
// A SOAP fault is returned as *Fault.
func (c *Client) Call(ctx context.Context, action string, request, response interface{}) (Attachments, error) {
	return c.CallTo(ctx, c.url, action, request, response)
}

// CallTo is Call with an explicit WS-Addressing To, for endpoints addressed
// by a logical address (e.g. urn:uuid:...) rather than their URL.
func (c *Client) CallTo(ctx context.Context, to, action string, request, response interface{}) (Attachments, error) {
	requestBody, err := NewEnvelope(to, action, request, c.namespaces...).Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %s", action, err)
	}
	log.DebugScannerf(c.url, "%s request:\n%s", action, dump(requestBody))

	httpRequest, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(requestBody))
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set("Content-Type", fmt.Sprintf(`%s; charset=utf-8; action="%s"`, ContentType, action))
	httpRequest.Header.Set("User-Agent", lib.UserAgent())

	httpResponse, err := c.hc.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("POST failure: %w", err)
	}
	defer httpResponse.Body.Close()

	root, attachments, err := readResponse(httpResponse)
	if err != nil {
		if httpResponse.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s POST HTTP-level failure: %s", c.url, httpResponse.Status)
		}
		return nil, err
	}
	log.DebugScannerf(c.url, "%s response (%s):\n%s", action, httpResponse.Status, dump(root))

	// SOAP 1.2 faults arrive with HTTP 400 or 500, so decode before
	// looking at the status.
	if err = decodeBody(root, response); err != nil {
		var fault *Fault
		if !errors.As(err, &fault) && httpResponse.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s POST HTTP-level failure: %s", c.url, httpResponse.Status)
		}
		return nil, err
	}
	if httpResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s POST HTTP-level failure: %s", c.url, httpResponse.Status)
	}

	return attachments, nil
}

// readResponse returns the SOAP envelope and, for multipart (MTOM)
// responses, the remaining parts.
func readResponse(response *http.Response) ([]byte, Attachments, error) {
	mediaType, params, err := mime.ParseMediaType(response.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		body, err := ioutil.ReadAll(response.Body)
		return body, nil, err
	}

	boundary := params["boundary"]
	if boundary == "" {
		return nil, nil, errors.New("multipart response without boundary")
	}
	start := strings.Trim(params["start"], "<>")

	var root []byte
	attachments := Attachments{}
	mr := multipart.NewReader(response.Body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read multipart response: %s", err)
		}

		var r io.Reader = part
		if strings.EqualFold(part.Header.Get("Content-Transfer-Encoding"), "base64") {
			r = base64.NewDecoder(base64.StdEncoding, part)
		}
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read multipart response: %s", err)
		}

		id := strings.Trim(part.Header.Get("Content-ID"), "<>")
		if root == nil && (start == "" || id == start) {
			root = data
			continue
		}
		attachments[id] = data
	}

	if root == nil {
		return nil, nil, errors.New("multipart response without a SOAP part")
	}
	return root, attachments, nil
}

// decodeBody decodes the first element of the SOAP Body into response,
// or returns the *Fault found there.
func decodeBody(envelope []byte, response interface{}) error {
	d := xml.NewDecoder(bytes.NewReader(envelope))
	inBody := false
	for {
		token, err := d.Token()
		if err == io.EOF {
			return errors.New("response is not a SOAP envelope")
		}
		if err != nil {
			return fmt.Errorf("failed to parse SOAP response: %s", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if !inBody {
				inBody = t.Name.Local == "Body"
				continue
			}
			if t.Name.Local == "Fault" {
				var fault Fault
				if err := d.DecodeElement(&fault, &t); err != nil {
					return fmt.Errorf("failed to parse SOAP fault: %s", err)
				}
				return &fault
			}
			if response == nil {
				return nil
			}
			if err := d.DecodeElement(response, &t); err != nil {
				return fmt.Errorf("failed to parse %s: %s", t.Name.Local, err)
			}
			return nil

		case xml.EndElement:
			if inBody && t.Name.Local == "Body" {
				if response == nil {
					return nil
				}
				return errors.New("empty SOAP Body")
			}
		}
	}
}

func dump(b []byte) string {
	if len(b) > maxDebugDump {
		return fmt.Sprintf("%s\n... (%d more bytes)", b[:maxDebugDump], len(b)-maxDebugDump)
	}
	return string(b)
}
