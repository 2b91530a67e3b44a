/*
Copyright 2015 Google Inc. All rights reserved.

Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file or at
https://developers.google.com/open-source/licenses/bsd
*/
package lib

import (
	"fmt"
	"os"
	"os/user"
	"runtime"
	"time"
)

const (
	ShortName = "WSD Scan Util"
	FullName  = "Web Services on Devices scanner utility"

	jobNameTimeFormat = "20060102-150405"
)

// BuildDate is set at link time: -ldflags "-X github.com/google/wsd-scan-util/lib.BuildDate=..."
var BuildDate = "DEV"

// UserAgent is sent with every HTTP request.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s/%s)", "wsd-scan-util", BuildDate, runtime.GOOS, runtime.GOARCH)
}

// DefaultJobName names a scan job after the time it was started.
func DefaultJobName(now time.Time) string {
	return "scan-" + now.Format(jobNameTimeFormat)
}

// DefaultUserName returns "user@hostname" for the current process, falling
// back to environment variables and finally to "unknown" for either part.
func DefaultUserName() string {
	name := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	} else if u := os.Getenv("USER"); u != "" {
		name = u
	} else if u := os.Getenv("USERNAME"); u != "" {
		name = u
	}

	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return name + "@" + host
}

// PointerToBool converts a boolean value (constant) to a pointer-to-bool.
func PointerToBool(b bool) *bool {
	return &b
}
