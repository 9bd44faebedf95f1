// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const binPdftotext = "pdftotext"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return cmd.Run()
}

var defaultExec = &osExecutor{}

// PDFToText converts PDFs by shelling out to the pdftotext binary with
// layout preservation. pdftotext separates pages with form feeds, which
// doubles as the page counter.
type PDFToText struct {
	exec executor
}

// NewPDFToText creates the pdftotext backend. It fails when the binary is
// not on PATH.
func NewPDFToText() (*PDFToText, error) {
	return newPDFToText(defaultExec)
}

func newPDFToText(exec executor) (*PDFToText, error) {
	if _, err := exec.LookPath(binPdftotext); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", binPdftotext, err)
	}
	return &PDFToText{exec: exec}, nil
}

// Extract runs pdftotext over the file and returns its text and page count.
func (p *PDFToText) Extract(path string) (string, int, error) {
	var out bytes.Buffer
	args := []string{"-layout", path, "-"}
	if err := p.exec.RunPiped(binPdftotext, args, nil, &out); err != nil {
		return "", 0, fmt.Errorf("running %s on %s: %w", binPdftotext, path, err)
	}

	text := out.String()
	if text == "" {
		return "", 0, fmt.Errorf("%s produced empty output for %s", binPdftotext, path)
	}

	pages := strings.Count(text, "\f")
	if !strings.HasSuffix(text, "\f") {
		pages++
	}
	return text, pages, nil
}
