package source

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambabib/dependency-dashboard/pkg/model"
)

const testRecords = `[
  {"project": "api", "package_name": "flask", "version": "2.0.0", "latest_version": "3.0.0",
   "health_score": 70, "abandonment_risk": "Low", "has_vulnerabilities": false, "needs_update": true,
   "license": "BSD-3-Clause"},
  {"project": "api", "package_name": "requests", "health_score": 90, "abandonment_risk": "Low",
   "has_vulnerabilities": false, "needs_update": false}
]`

const testReport = "# Weekly Report\n\nAll good.\n"

func memLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("reports", name), []byte(content), 0644))
	}
	return NewLoader("reports", "").WithFs(fs)
}

func TestLoad_FromDirectory(t *testing.T) {
	l := memLoader(t, map[string]string{DataFile: testRecords, ReportFile: testReport})

	data := l.Load()
	assert.False(t, data.Fallback)
	assert.Empty(t, data.ReportError)
	assert.Equal(t, "reports", data.Source)
	require.Len(t, data.Records, 2)
	assert.Equal(t, "flask", data.Records[0].PackageName)
	assert.True(t, data.Records[0].NeedsUpdate)
	assert.Equal(t, model.Unknown, data.Records[1].DisplayVersion())
	assert.Contains(t, data.ReportHTML, "<h1>Weekly Report</h1>")
	assert.Equal(t, "Weekly Report", Title(data.ReportHTML))
}

func TestLoad_FloatAndNullNumbers(t *testing.T) {
	records := `[
  {"project": "api", "package_name": "flask", "health_score": 85.0, "abandonment_risk": "Low",
   "has_vulnerabilities": true, "vulnerability_count": 2.0, "needs_update": false},
  {"project": "api", "package_name": "requests", "health_score": null, "abandonment_risk": null,
   "has_vulnerabilities": false, "vulnerability_count": null, "needs_update": false}
]`
	l := memLoader(t, map[string]string{DataFile: records, ReportFile: testReport})

	data := l.Load()
	assert.False(t, data.Fallback)
	require.Len(t, data.Records, 2)
	assert.Equal(t, 85, data.Records[0].HealthScore)
	assert.Equal(t, 2, data.Records[0].VulnerabilityCount)
	assert.Equal(t, 0, data.Records[1].HealthScore)
	assert.Equal(t, 0, data.Records[1].VulnerabilityCount)
	assert.Equal(t, -1, data.Records[1].AbandonmentRisk.Index())
}

func TestLoad_MissingDataFallsBackToSample(t *testing.T) {
	l := memLoader(t, map[string]string{ReportFile: testReport})

	data := l.Load()
	assert.True(t, data.Fallback)
	assert.Equal(t, model.SampleRecords(), data.Records)
	// the built-in report is used, not the one on disk
	assert.NotContains(t, data.ReportHTML, "Weekly Report")
	assert.NotEmpty(t, data.ReportHTML)
}

func TestLoad_InvalidJSONFallsBackToSample(t *testing.T) {
	l := memLoader(t, map[string]string{DataFile: `{"not": "an array"}`, ReportFile: testReport})

	data := l.Load()
	assert.True(t, data.Fallback)
	assert.Len(t, data.Records, 6)
}

func TestLoad_MissingReport(t *testing.T) {
	l := memLoader(t, map[string]string{DataFile: testRecords})

	data := l.Load()
	assert.False(t, data.Fallback)
	assert.Len(t, data.Records, 2)
	assert.Equal(t, ReportErrorHTML, data.ReportHTML)
	assert.Contains(t, data.ReportError, ReportFile)
}

func TestLoadRecords_EmptyAndNull(t *testing.T) {
	for _, content := range []string{"[]", "null"} {
		l := memLoader(t, map[string]string{DataFile: content})
		records, err := l.LoadRecords()
		require.NoError(t, err, content)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	}
}

func TestLoad_FromURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reports/" + DataFile:
			_, _ = w.Write([]byte(testRecords))
		case "/reports/" + ReportFile:
			_, _ = w.Write([]byte(testReport))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	data := NewLoader("ignored", ts.URL+"/reports/").Load()
	assert.False(t, data.Fallback)
	assert.Equal(t, ts.URL+"/reports", data.Source)
	assert.Len(t, data.Records, 2)
	assert.Equal(t, "Weekly Report", Title(data.ReportHTML))
}

func TestLoad_FromURLNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	l := NewLoader("", ts.URL)
	_, err := l.LoadRecords()
	assert.ErrorContains(t, err, "status code: 404")

	data := l.Load()
	assert.True(t, data.Fallback)
	assert.Len(t, data.Records, 6)
}

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown([]byte("## Summary\n\n| Package | Risk |\n|---|---|\n| lodash | Low |\n\n<script>alert(1)</script>\n"))
	require.NoError(t, err)
	assert.Contains(t, html, "<h2>Summary</h2>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>lodash</td>")
	assert.NotContains(t, html, "<script")
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain markup kept",
			in:   `<p>Hello <strong>world</strong></p>`,
			want: `<p>Hello <strong>world</strong></p>`,
		},
		{
			name: "script and style removed",
			in:   `<p>a</p><script>alert(1)</script><style>p{}</style>`,
			want: `<p>a</p>`,
		},
		{
			name: "event handlers removed",
			in:   `<p onclick="x()" class="c">a</p><img src="ok.png" ONERROR="y()"/>`,
			want: `<p class="c">a</p><img src="ok.png"/>`,
		},
		{
			name: "script urls removed",
			in:   `<a href="javascript:alert(1)">x</a><a href=" Java Script:alert(1)">y</a><a href="https://example.com">z</a>`,
			want: `<a>x</a><a>y</a><a href="https://example.com">z</a>`,
		},
		{
			name: "embedded content removed",
			in:   `<iframe src="https://evil"></iframe><form action="/x"><input/></form><p>ok</p>`,
			want: `<p>ok</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "", Title("<p>no heading</p>"))
	assert.Equal(t, "First", Title("<h2>First</h2><h1>Second</h1>"))
}
