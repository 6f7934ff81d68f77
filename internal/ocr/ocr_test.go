package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/common"
)

// fakeRunner dispatches on the binary name; handlers get the full argv.
type fakeRunner struct {
	handlers map[string]func(args []string) (stdout []byte, err error)
	calls    []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name)
	h, ok := f.handlers[name]
	if !ok {
		return nil, []byte("not found"), fmt.Errorf("unexpected command %q", name)
	}
	out, err := h(args)
	if err != nil {
		return nil, []byte(err.Error()), err
	}
	return out, nil, nil
}

func testExtractor(t *testing.T, runner Runner) *Extractor {
	t.Helper()
	e := NewExtractor(Config{}, nil)
	e.runner = runner
	return e
}

func writeTempDoc(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("not a real document"), 0o644))
	return path
}

func TestExtractPDFNativeText(t *testing.T) {
	native := strings.Repeat("Nom: DUPONT Prénom: Jean ", 10) + "\fpage two content here"
	runner := &fakeRunner{handlers: map[string]func([]string) ([]byte, error){
		"pdftotext": func(args []string) ([]byte, error) {
			assert.Contains(t, args, "-layout")
			return []byte(native), nil
		},
	}}

	e := testExtractor(t, runner)
	res, err := e.Extract(context.Background(), writeTempDoc(t, "cni.pdf"))

	require.NoError(t, err)
	assert.Equal(t, ProvenanceNative, res.Provenance)
	assert.Equal(t, "pdf-layout", res.Method)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "DUPONT")
	// No OCR commands ran.
	assert.NotContains(t, runner.calls, "tesseract")
	assert.NotContains(t, runner.calls, "pdftoppm")
}

func TestExtractPDFShortNativeTextFallsBackToOCR(t *testing.T) {
	runner := &fakeRunner{}
	runner.handlers = map[string]func([]string) ([]byte, error){
		"pdftotext": func(args []string) ([]byte, error) {
			return []byte("scan"), nil // below the 50-char threshold
		},
		"pdftoppm": func(args []string) ([]byte, error) {
			prefix := args[len(args)-1]
			for i := 1; i <= 2; i++ {
				name := fmt.Sprintf("%s-%d.png", prefix, i)
				if err := os.WriteFile(name, []byte("png"), 0o644); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
		"tesseract": func(args []string) ([]byte, error) {
			assert.Contains(t, args, "fra")
			assert.Contains(t, args, "--oem")
			assert.Contains(t, args, "--psm")
			return []byte("Nom: DUPONT"), nil
		},
	}

	e := testExtractor(t, runner)
	res, err := e.Extract(context.Background(), writeTempDoc(t, "cni_scan.pdf"))

	require.NoError(t, err)
	assert.Equal(t, ProvenanceOCR, res.Provenance)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "Nom: DUPONT\nNom: DUPONT", res.Text)
}

func TestExtractPDFKeepsShortNativeTextWhenOCRFails(t *testing.T) {
	runner := &fakeRunner{handlers: map[string]func([]string) ([]byte, error){
		"pdftotext": func(args []string) ([]byte, error) {
			return []byte("faint text"), nil
		},
		"pdftoppm": func(args []string) ([]byte, error) {
			return nil, errors.New("rasterize failed")
		},
	}}

	e := testExtractor(t, runner)
	res, err := e.Extract(context.Background(), writeTempDoc(t, "cni_scan.pdf"))

	require.NoError(t, err)
	assert.Equal(t, ProvenanceNative, res.Provenance)
	assert.Equal(t, "faint text", res.Text)
}

func TestExtractPDFNothingExtractable(t *testing.T) {
	runner := &fakeRunner{handlers: map[string]func([]string) ([]byte, error){
		"pdftotext": func(args []string) ([]byte, error) {
			return nil, nil
		},
		"pdftoppm": func(args []string) ([]byte, error) {
			return nil, errors.New("rasterize failed")
		},
	}}

	e := testExtractor(t, runner)
	_, err := e.Extract(context.Background(), writeTempDoc(t, "broken.pdf"))

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoExtraction)
}

func TestExtractPDFPageOCRFailureTolerated(t *testing.T) {
	runner := &fakeRunner{}
	runner.handlers = map[string]func([]string) ([]byte, error){
		"pdftotext": func(args []string) ([]byte, error) {
			return nil, nil
		},
		"pdftoppm": func(args []string) ([]byte, error) {
			prefix := args[len(args)-1]
			for i := 1; i <= 2; i++ {
				name := fmt.Sprintf("%s-%d.png", prefix, i)
				if err := os.WriteFile(name, []byte("png"), 0o644); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
		"tesseract": func(args []string) ([]byte, error) {
			if strings.Contains(args[0], "-1.png") {
				return nil, errors.New("page unreadable")
			}
			return []byte("page two text"), nil
		},
	}

	e := testExtractor(t, runner)
	res, err := e.Extract(context.Background(), writeTempDoc(t, "scan.pdf"))

	require.NoError(t, err)
	assert.Equal(t, "page two text", res.Text)
	assert.Equal(t, 2, res.Pages)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtractImage(t *testing.T) {
	runner := &fakeRunner{handlers: map[string]func([]string) ([]byte, error){
		"tesseract": func(args []string) ([]byte, error) {
			assert.Equal(t, "stdout", args[1])
			return []byte("Nom: BERNARD"), nil
		},
	}}

	e := testExtractor(t, runner)
	res, err := e.Extract(context.Background(), writeTempDoc(t, "aptitude.jpg"))

	require.NoError(t, err)
	assert.Equal(t, ProvenanceOCR, res.Provenance)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, constants.Image, res.SourceType)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "Nom: BERNARD", res.Text)
}

func TestExtractImageOCRFailure(t *testing.T) {
	runner := &fakeRunner{handlers: map[string]func([]string) ([]byte, error){
		"tesseract": func(args []string) ([]byte, error) {
			return nil, errors.New("no text found")
		},
	}}

	e := testExtractor(t, runner)
	_, err := e.Extract(context.Background(), writeTempDoc(t, "photo.png"))
	assert.ErrorIs(t, err, common.ErrNoExtraction)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := testExtractor(t, &fakeRunner{})
	_, err := e.Extract(context.Background(), "notes.docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestCheckOCR(t *testing.T) {
	ok := &fakeRunner{handlers: map[string]func([]string) ([]byte, error){
		"tesseract": func(args []string) ([]byte, error) {
			assert.Equal(t, []string{"--version"}, args)
			return []byte("tesseract 5.3.0"), nil
		},
	}}
	assert.NoError(t, testExtractor(t, ok).CheckOCR(context.Background()))

	broken := &fakeRunner{handlers: map[string]func([]string) ([]byte, error){}}
	err := testExtractor(t, broken).CheckOCR(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrOCRUnavailable)
}
