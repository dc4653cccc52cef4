package source

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/parnurzeal/gorequest"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/sambabib/dependency-dashboard/pkg/logger"
	"github.com/sambabib/dependency-dashboard/pkg/model"
)

const (
	DataFile   = "dependencies.json"
	ReportFile = "dependency_report.md"
)

// Loader reads the upstream monitor's output, either from a reports
// directory or from a base URL serving the same two files.
type Loader struct {
	appFs      afero.Fs
	reportsDir string
	baseURL    string
}

// NewLoader creates a loader. When baseURL is set it takes precedence over
// reportsDir.
func NewLoader(reportsDir, baseURL string) *Loader {
	return &Loader{
		appFs:      afero.NewOsFs(),
		reportsDir: reportsDir,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// WithFs replaces the filesystem the loader reads from.
func (l *Loader) WithFs(fs afero.Fs) *Loader {
	l.appFs = fs
	return l
}

// Data is one load of the dashboard inputs.
type Data struct {
	Records     []model.DependencyRecord `json:"-"`
	ReportHTML  string                   `json:"-"`
	Fallback    bool                     `json:"fallback"`
	ReportError string                   `json:"report_error,omitempty"`
	LoadedAt    time.Time                `json:"loaded_at"`
	Source      string                   `json:"source"`
}

// Load fetches the records and the report. It never fails: when the records
// cannot be read the sample data set and its report are used instead, and
// when only the report fails a static error message replaces it.
func (l *Loader) Load() *Data {
	data := &Data{LoadedAt: time.Now(), Source: l.describe()}

	records, err := l.LoadRecords()
	if err != nil {
		logger.Warnf("Failed to load dependency data, using sample data instead: %v", err)
		data.Records = model.SampleRecords()
		data.Fallback = true
		data.ReportHTML, err = RenderMarkdown([]byte(model.SampleReport))
		if err != nil {
			data.ReportHTML = ReportErrorHTML
		}
		return data
	}
	data.Records = records
	logger.Debugf("Source: loaded %d records from %s", len(records), data.Source)

	html, err := l.LoadReportHTML()
	if err != nil {
		logger.Errorf("Error loading report: %v", err)
		data.ReportHTML = ReportErrorHTML
		data.ReportError = err.Error()
		return data
	}
	data.ReportHTML = html
	return data
}

// LoadRecords reads and decodes dependencies.json.
func (l *Loader) LoadRecords() ([]model.DependencyRecord, error) {
	b, err := l.read(DataFile)
	if err != nil {
		return nil, xerrors.Errorf("failed to load dependency data: %w", err)
	}

	var records []model.DependencyRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, xerrors.Errorf("invalid %s: %w", DataFile, err)
	}
	if records == nil {
		records = []model.DependencyRecord{}
	}
	return records, nil
}

// LoadReportHTML reads dependency_report.md and renders it to sanitized
// HTML.
func (l *Loader) LoadReportHTML() (string, error) {
	b, err := l.read(ReportFile)
	if err != nil {
		return "", xerrors.Errorf("failed to load report: %w", err)
	}
	return RenderMarkdown(b)
}

func (l *Loader) read(name string) ([]byte, error) {
	if l.baseURL != "" {
		return fetchURL(l.baseURL + "/" + name)
	}
	path := filepath.Join(l.reportsDir, name)
	b, err := afero.ReadFile(l.appFs, path)
	if err != nil {
		return nil, xerrors.Errorf("unable to read %s: %w", path, err)
	}
	return b, nil
}

func (l *Loader) describe() string {
	if l.baseURL != "" {
		return l.baseURL
	}
	return l.reportsDir
}

func fetchURL(url string) ([]byte, error) {
	resp, body, errs := gorequest.New().Get(url).EndBytes()
	if len(errs) > 0 {
		return nil, xerrors.Errorf("HTTP error. url: %s, err: %w", url, errs[0])
	}
	if resp.StatusCode != http.StatusOK {
		return nil, xerrors.Errorf("HTTP error. status code: %d, url: %s", resp.StatusCode, url)
	}
	return body, nil
}
