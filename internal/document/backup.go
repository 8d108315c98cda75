package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	sferrors "github.com/alexisbeaulieu97/sectionforge/pkg/errors"
)

// CurrentVersion is the backup format this build writes.
const CurrentVersion = 1

// Backup is the workspace backup, the only form a document is stored or sent in.
type Backup struct {
	Version    int       `json:"version" validate:"min=1"`
	ExportedAt time.Time `json:"exportedAt" validate:"required"`
	Document   *Document `json:"document" validate:"required"`

	// exportedAtText is exportedAt as it was read. It is written back
	// unchanged while ExportedAt still names the same instant.
	exportedAtText string
}

// backupJSON is the wire layout of Backup.
type backupJSON struct {
	Version    int       `json:"version"`
	ExportedAt *string   `json:"exportedAt"`
	Document   *Document `json:"document"`
}

// UnmarshalJSON keeps the exportedAt text so a read backup is written back
// byte for byte.
func (b *Backup) UnmarshalJSON(data []byte) error {
	var in backupJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := Backup{Version: in.Version, Document: in.Document}
	if in.ExportedAt != nil {
		t, err := time.Parse(time.RFC3339Nano, *in.ExportedAt)
		if err != nil {
			return fmt.Errorf("exportedAt: %w", err)
		}
		out.ExportedAt = t
		out.exportedAtText = *in.ExportedAt
	}
	*b = out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b Backup) MarshalJSON() ([]byte, error) {
	text := b.ExportedAt.Format(time.RFC3339Nano)
	if b.exportedAtText != "" {
		if t, err := time.Parse(time.RFC3339Nano, b.exportedAtText); err == nil && t.Equal(b.ExportedAt) {
			text = b.exportedAtText
		}
	}
	return json.Marshal(backupJSON{Version: b.Version, ExportedAt: &text, Document: b.Document})
}

// NewBackup wraps doc for writing.
func NewBackup(doc *Document, exportedAt time.Time) *Backup {
	return &Backup{Version: CurrentVersion, ExportedAt: exportedAt.UTC(), Document: doc}
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
	pageKeyExpr   = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
)

// validPageKey reports whether key can name a page. The header and footer
// keys are taken by the document's own slots.
func validPageKey(key string) bool {
	return pageKeyExpr.MatchString(key) && key != HeaderKey && key != FooterKey
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("page_key", func(fl validator.FieldLevel) bool {
			return validPageKey(fl.Field().String())
		})
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// Parse decodes and checks a backup. A backup that fails is rejected whole;
// the caller falls back to its last good copy.
func Parse(data []byte) (*Backup, error) {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, sferrors.NewMalformedDocumentError("backup is not valid JSON", err)
	}
	if err := Check(&b); err != nil {
		return nil, err
	}
	b.Document.normalize()
	return &b, nil
}

// Check runs the outer schema validation.
func Check(b *Backup) error {
	if b == nil {
		return sferrors.NewMalformedDocumentError("backup is empty", nil)
	}
	if err := validatorInstance().Struct(b); err != nil {
		return convertValidationError(err)
	}
	if b.Version > CurrentVersion {
		return sferrors.NewMalformedDocumentError(fmt.Sprintf("backup version %d is newer than supported version %d", b.Version, CurrentVersion), nil)
	}
	return nil
}

func convertValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		first := validationErrs[0]
		field := first.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		reason := fmt.Sprintf("%s failed %q validation", field, first.Tag())
		return sferrors.NewMalformedDocumentError(reason, sferrors.NewValidationError(field, first.Error(), nil))
	}
	return sferrors.NewMalformedDocumentError(err.Error(), err)
}

// Marshal encodes a backup the way Save writes it.
func Marshal(b *Backup) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}
	return append(data, '\n'), nil
}

// Load reads and parses a backup file.
func Load(path string) (*Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup %s: %w", path, err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Save writes a backup atomically: a temporary file is written next to path
// and renamed over it.
func Save(path string, b *Backup) error {
	if err := Check(b); err != nil {
		return err
	}
	data, err := Marshal(b)
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
