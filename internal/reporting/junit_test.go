package reporting

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spboyer/sampledrive/internal/catalog"
	"github.com/spboyer/sampledrive/internal/models"
	"github.com/spboyer/sampledrive/internal/runner"
	"github.com/spboyer/sampledrive/internal/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var started = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func finishedSession(key, label string, state models.State, polls int, tags ...string) *models.RunSession {
	s := models.NewRunSession("01run"+key, catalog.Entry{Key: key, Label: label}, started)
	for _, tag := range tags {
		s.AddScreenshot(models.Screenshot{Tag: tag, Path: "/tmp/sample-" + key + "-" + tag + ".png", TakenAt: started})
	}
	s.RecordPolls(polls)
	s.Finish(state, started.Add(time.Duration(polls)*2*time.Second))
	return s
}

// newTestReport has one result of every kind and one sample never reached.
func newTestReport() *suite.Report {
	failed := models.NewRunSession("01runmulti", catalog.Entry{Key: "multi-agent", Label: "Multi-Agent Analysis"}, started)
	failed.AddScreenshot(models.Screenshot{Tag: "failed", Path: "/tmp/sample-multi-agent-failed.png"})
	failed.Fail(errors.New("element not found: button \"Run\""), started.Add(5*time.Second))

	return &suite.Report{
		Planned:    5,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Results: []suite.Result{
			{Sample: catalog.Entry{Key: "summarizer", Label: "Document Summarizer"},
				Session: finishedSession("summarizer", "Document Summarizer", models.StateDone, 2, "loaded", "running", "done")},
			{Sample: catalog.Entry{Key: "rag", Label: "RAG Pipeline"},
				Session: finishedSession("rag", "RAG Pipeline", models.StateTimedOut, 60, "loaded", "running", "done")},
			{Sample: catalog.Entry{Key: "multi-agent", Label: "Multi-Agent Analysis"},
				Session: failed, Err: errors.New("element not found: button \"Run\"")},
			{Sample: catalog.Entry{Key: "keyword-router", Label: "Keyword Router"},
				Session: finishedSession("keyword-router", "Keyword Router", models.StateErrored, 3, "loaded", "running", "done")},
		},
	}
}

func TestConvertToJUnit_Structure(t *testing.T) {
	suites := ConvertToJUnit(newTestReport(), "sample suite")

	assert.Equal(t, 5, suites.Tests)
	assert.Equal(t, 2, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	assert.InDelta(t, 90.0, suites.Time, 0.01)

	require.Len(t, suites.TestSuites, 1)
	ts := suites.TestSuites[0]

	assert.Equal(t, "sample suite", ts.Name)
	assert.Equal(t, 1, ts.Skipped)
	assert.Equal(t, "2026-06-15T12:00:00Z", ts.Timestamp)
	require.Len(t, ts.TestCases, 4)
}

func TestConvertToJUnit_DoneTestCase(t *testing.T) {
	tc := ConvertToJUnit(newTestReport(), "s").TestSuites[0].TestCases[0]

	assert.Equal(t, "Document Summarizer", tc.Name)
	assert.Equal(t, "sampledrive", tc.Classname)
	assert.InDelta(t, 4.0, tc.Time, 0.01)
	assert.Nil(t, tc.Failure)
	assert.Nil(t, tc.Error)
	assert.Equal(t, 3, strings.Count(tc.SystemOut, "SCREENSHOT:"))
}

func TestConvertToJUnit_TimedOutAndErrored(t *testing.T) {
	cases := ConvertToJUnit(newTestReport(), "s").TestSuites[0].TestCases

	require.NotNil(t, cases[1].Failure)
	assert.Equal(t, "TimedOut", cases[1].Failure.Type)
	assert.Contains(t, cases[1].Failure.Message, "60 polls")

	require.NotNil(t, cases[3].Failure)
	assert.Equal(t, "Errored", cases[3].Failure.Type)
}

func TestConvertToJUnit_RunFailed(t *testing.T) {
	tc := ConvertToJUnit(newTestReport(), "s").TestSuites[0].TestCases[2]

	assert.Nil(t, tc.Failure)
	require.NotNil(t, tc.Error)
	assert.Equal(t, "RunFailed", tc.Error.Type)
	assert.Contains(t, tc.Error.Message, "element not found")
}

func TestConvertToJUnit_Stopped(t *testing.T) {
	report := &suite.Report{
		Planned: 2,
		Stopped: true,
		Results: []suite.Result{{
			Sample:  catalog.Entry{Key: "rag", Label: "RAG Pipeline"},
			Session: models.NewRunSession("id", catalog.Entry{Key: "rag", Label: "RAG Pipeline"}, started),
			Err:     fmt.Errorf("checkpoint loaded: %w", runner.ErrStopped),
		}},
	}

	ts := ConvertToJUnit(report, "s").TestSuites[0]
	require.NotNil(t, ts.TestCases[0].Skipped)
	assert.Equal(t, "stopped at checkpoint", ts.TestCases[0].Skipped.Message)
	assert.Nil(t, ts.TestCases[0].Error)
	assert.Equal(t, report.Counts().Skipped, ts.Skipped)
	assert.Equal(t, 2, ts.Skipped)
	assert.Equal(t, "true", ts.Properties[0].Value)
}

func TestConvertToJUnit_StoppedAfterResult(t *testing.T) {
	// Stopping at the result checkpoint keeps the finished outcome.
	report := &suite.Report{
		Planned: 2,
		Stopped: true,
		Results: []suite.Result{{
			Sample:  catalog.Entry{Key: "rag", Label: "RAG Pipeline"},
			Session: finishedSession("rag", "RAG Pipeline", models.StateDone, 2, "loaded", "running", "done"),
			Err:     fmt.Errorf("checkpoint result: %w", runner.ErrStopped),
		}},
	}

	ts := ConvertToJUnit(report, "s").TestSuites[0]
	tc := ts.TestCases[0]
	assert.Nil(t, tc.Skipped)
	assert.Nil(t, tc.Failure)
	assert.Nil(t, tc.Error)
	assert.Equal(t, 1, ts.Skipped)
}

func TestConvertToJUnit_EmptyReport(t *testing.T) {
	suites := ConvertToJUnit(&suite.Report{StartedAt: started, FinishedAt: started}, "empty")
	assert.Equal(t, 0, suites.Tests)
	require.Len(t, suites.TestSuites, 1)
	assert.Empty(t, suites.TestSuites[0].TestCases)
}

func TestWriteJUnitXML_ValidXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xml")
	require.NoError(t, WriteJUnitXML(newTestReport(), "sample suite", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))

	var parsed JUnitTestSuites
	require.NoError(t, xml.Unmarshal(data, &parsed))
	assert.Equal(t, 5, parsed.Tests)
	assert.Equal(t, 2, parsed.Failures)
	require.Len(t, parsed.TestSuites, 1)
	assert.Len(t, parsed.TestSuites[0].TestCases, 4)
}
