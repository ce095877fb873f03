package source

import (
	"encoding/json"
	"io"
	"os"

	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
)

// ReadDocument decodes a design document from r and validates it.
// ReadDocument does not close r.
func ReadDocument(r io.Reader) (*design.Document, error) {
	var d design.Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding document")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ImportDocument reads and validates the design document at path.
func ImportDocument(path string) (*design.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "opening %s", path)
	}
	defer f.Close()
	return ReadDocument(f)
}

// WriteDocument encodes a document as indented JSON to w.
func WriteDocument(d *design.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding document")
	}
	return nil
}

// ExportDocument writes a document to a JSON file at path.
func ExportDocument(d *design.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating %s", path)
	}
	defer f.Close()
	return WriteDocument(d, f)
}

// ImportStrategy reads a strategy document at path. Unknown fields are
// tolerated; the analysis collaborator's format grows faster than ours.
func ImportStrategy(path string) (*design.Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "opening %s", path)
	}
	var s design.Strategy
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding strategy %s", path)
	}
	return &s, nil
}

// ImportFeedback reads a feedback document at path.
func ImportFeedback(path string) (*design.Feedback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "opening %s", path)
	}
	var f design.Feedback
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding feedback %s", path)
	}
	return &f, nil
}
