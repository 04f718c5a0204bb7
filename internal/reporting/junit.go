package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/spboyer/sampledrive/internal/models"
	"github.com/spboyer/sampledrive/internal/suite"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one suite run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one sample.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

// JUnitFailure is a run that ended Errored or TimedOut.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError is a run aborted by a UI failure.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a sample that never ran.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

const junitClassname = "sampledrive"

// ConvertToJUnit converts a suite report to JUnit XML format. Samples that
// were planned but not reached are not listed; only the skipped count
// reflects them.
func ConvertToJUnit(report *suite.Report, name string) *JUnitTestSuites {
	c := report.Counts()
	durationSec := report.Duration().Seconds()
	failures := c.Errored + c.TimedOut

	ts := JUnitTestSuite{
		Name:      name,
		Tests:     c.Planned,
		Failures:  failures,
		Errors:    c.Failed,
		Skipped:   c.Skipped,
		Time:      durationSec,
		Timestamp: report.StartedAt.UTC().Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "stopped", Value: fmt.Sprint(report.Stopped)},
		},
	}

	for _, res := range report.Results {
		ts.TestCases = append(ts.TestCases, convertResult(res))
	}

	return &JUnitTestSuites{
		Tests:      c.Planned,
		Failures:   failures,
		Errors:     c.Failed,
		Time:       durationSec,
		TestSuites: []JUnitTestSuite{ts},
	}
}

func convertResult(res suite.Result) JUnitTestCase {
	tc := JUnitTestCase{
		Name:      res.Sample.Label,
		Classname: junitClassname,
	}
	if res.Session == nil {
		tc.Skipped = &JUnitSkipped{Message: "not run"}
		return tc
	}

	snap := res.Session.Snapshot()
	tc.Time = res.Session.Duration().Seconds()
	for _, shot := range snap.Screenshots {
		tc.SystemOut += fmt.Sprintf("SCREENSHOT:%s\n", shot.Path)
	}

	switch {
	case res.Stopped():
		tc.Skipped = &JUnitSkipped{Message: "stopped at checkpoint"}
	case res.Failed():
		tc.Error = &JUnitError{
			Message: res.Err.Error(),
			Type:    "RunFailed",
		}
	case snap.State == models.StateErrored:
		tc.Failure = &JUnitFailure{
			Message: fmt.Sprintf("%s: error dialog shown after %d polls", res.Sample.Label, snap.Polls),
			Type:    "Errored",
		}
	case snap.State == models.StateTimedOut:
		tc.Failure = &JUnitFailure{
			Message: fmt.Sprintf("%s: no result after %d polls", res.Sample.Label, snap.Polls),
			Type:    "TimedOut",
		}
	}
	return tc
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(report *suite.Report, name, path string) error {
	suites := ConvertToJUnit(report, name)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
