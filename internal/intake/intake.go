package intake

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/shenbi/jobprep/internal/api"
)

// maxFileSize caps uploads the same way the hosted frontend does.
const maxFileSize = 10 << 20 // 10MB

// Kind is the content classification of a chosen file. Each kind maps to
// exactly one request payload field.
type Kind int

const (
	KindText  Kind = iota // transmitted verbatim under "jd"
	KindImage             // base64 under "jdImg"
	KindPDF               // base64 under "resume"
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyFile is returned for zero-length or unreadable-as-empty files.
	ErrEmptyFile = errors.New("file is empty")
	// ErrUnsupportedType is returned when a file matches none of the
	// accepted kinds for the target stage.
	ErrUnsupportedType = errors.New("unsupported file type")
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

var textExts = map[string]bool{
	".txt": true,
	".md":  true,
}

// Classify determines the content kind of a file from its extension,
// falling back to content sniffing for unrecognized extensions.
func Classify(path string, data []byte) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExts[ext]:
		return KindImage, nil
	case textExts[ext]:
		return KindText, nil
	case ext == ".pdf":
		return KindPDF, nil
	}

	switch ct := http.DetectContentType(data); {
	case strings.HasPrefix(ct, "image/"):
		return KindImage, nil
	case ct == "application/pdf":
		return KindPDF, nil
	case strings.HasPrefix(ct, "text/"):
		return KindText, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, path)
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("file exceeds %dMB limit", maxFileSize>>20)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return data, nil
}

// JobDescription reads a job-description file (image or plain text) and
// shapes it into the jdAnalysis payload: text verbatim under "jd", images
// base64-encoded under "jdImg".
func JobDescription(path string) (api.JobDescriptionPayload, error) {
	data, err := readFile(path)
	if err != nil {
		return api.JobDescriptionPayload{}, err
	}

	kind, err := Classify(path, data)
	if err != nil {
		return api.JobDescriptionPayload{}, err
	}

	switch kind {
	case KindImage:
		return api.JobDescriptionPayload{JDImg: base64.StdEncoding.EncodeToString(data)}, nil
	case KindText:
		return api.JobDescriptionPayload{JD: string(data)}, nil
	default:
		return api.JobDescriptionPayload{}, fmt.Errorf("%w: job descriptions accept images and plain text, got %s", ErrUnsupportedType, kind)
	}
}

// Resume reads a resume file (PDF only), validates it is a readable PDF,
// and returns the base64 payload for the "resume" field plus a short text
// preview of the first page so the user can confirm the right file was
// uploaded.
func Resume(path string) (resume string, preview string, err error) {
	data, err := readFile(path)
	if err != nil {
		return "", "", err
	}

	kind, err := Classify(path, data)
	if err != nil {
		return "", "", err
	}
	if kind != KindPDF {
		return "", "", fmt.Errorf("%w: resumes must be PDF, got %s", ErrUnsupportedType, kind)
	}

	preview, err = pdfPreview(data)
	if err != nil {
		return "", "", fmt.Errorf("not a readable PDF: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), preview, nil
}

// pdfPreview extracts up to 200 characters of text from the first page.
// Image-only PDFs yield an empty preview, which is fine: validation is the
// point, the preview is a courtesy.
func pdfPreview(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	if reader.NumPage() == 0 {
		return "", errors.New("pdf has no pages")
	}

	page := reader.Page(1)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", nil
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text, nil
}
