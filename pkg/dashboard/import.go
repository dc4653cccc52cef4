package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/xerrors"

	"github.com/sambabib/dependency-dashboard/pkg/logger"
	"github.com/sambabib/dependency-dashboard/pkg/manifest"
)

// Notice is a user-facing validation message. It is returned as an error
// but is never fatal.
type Notice struct {
	Title   string
	Message string
}

func (n *Notice) Error() string {
	return n.Title + ": " + n.Message
}

// ImportResult is the outcome of a manifest import. The entries are parsed
// only; they are neither stored nor sent anywhere.
type ImportResult struct {
	Project  string           `json:"project"`
	Filename string           `json:"filename"`
	Packages []manifest.Entry `json:"packages"`
	Message  string           `json:"message"`
}

// ImportManifest validates an import request and parses content. A missing
// file or project name yields a *Notice.
func ImportManifest(project, filename string, content []byte) (ImportResult, error) {
	if filename == "" && content == nil {
		return ImportManifestReader(project, filename, nil)
	}
	return ImportManifestReader(project, filename, bytes.NewReader(content))
}

// ImportManifestReader is ImportManifest over a stream. A nil r means no
// file was selected.
func ImportManifestReader(project, filename string, r io.Reader) (ImportResult, error) {
	if r == nil {
		return ImportResult{}, &Notice{Title: "Error", Message: "Please select a file to upload."}
	}
	project = strings.TrimSpace(project)
	if project == "" {
		return ImportResult{}, &Notice{Title: "Error", Message: "Please enter a project name."}
	}
	if filename == "" {
		filename = "requirements.txt"
	}

	entries, err := manifest.ParseReader(r)
	if err != nil {
		return ImportResult{}, xerrors.Errorf("failed to import %s: %w", filename, err)
	}
	logger.Debugf("Import: parsed %d packages from %s for project %s", len(entries), filename, project)

	return ImportResult{
		Project:  project,
		Filename: filename,
		Packages: entries,
		Message:  fmt.Sprintf("Imported %d packages from %s.", len(entries), filename),
	}, nil
}
