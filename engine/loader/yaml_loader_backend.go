package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// ErrDocumentTooLarge is returned when a document exceeds the configured size limit.
	ErrDocumentTooLarge = errors.New("loader: document exceeds size limit")
	// ErrInvalidDocument wraps structural validation failures of a decoded document.
	ErrInvalidDocument = errors.New("loader: invalid document")
)

// yamlLoaderBackendImpl decodes YAML rig documents. Unknown keys are rejected.
type yamlLoaderBackendImpl struct {
	maxSize  int64
	validate *validator.Validate
}

var _ loaderBackend = &yamlLoaderBackendImpl{}

// newYAMLLoaderBackend creates a YAML backend that refuses documents larger than maxSize bytes.
func newYAMLLoaderBackend(maxSize int64) loaderBackend {
	if maxSize <= 0 {
		maxSize = DefaultMaxDocumentSize
	}
	return &yamlLoaderBackendImpl{
		maxSize:  maxSize,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (b *yamlLoaderBackendImpl) Load(path string) (*skeleton.SkeletonData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rig file: %w", err)
	}
	defer f.Close()
	return b.LoadReader(f)
}

func (b *yamlLoaderBackendImpl) LoadReader(r io.Reader) (*skeleton.SkeletonData, error) {
	raw, err := io.ReadAll(io.LimitReader(r, b.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read rig document: %w", err)
	}
	if int64(len(raw)) > b.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrDocumentTooLarge, b.maxSize)
	}

	var doc rigDocument
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("failed to decode rig document: %w", err)
	}

	if err := b.validate.Struct(&doc); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return nil, fmt.Errorf("%w: %s fails %q (%d problems)", ErrInvalidDocument, fe.Namespace(), fe.Tag(), len(fieldErrs))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	return newYAMLImporter(&doc).Import()
}
