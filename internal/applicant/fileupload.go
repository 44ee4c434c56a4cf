package applicant

import "github.com/civiform/civiform-go/internal/model"

// FileUploadQuestion is the typed reader for FILEUPLOAD answers. The
// file key addresses the stored object; only metadata lives in the
// answer document.
type FileUploadQuestion struct {
	predicates model.FileUploadValidationPredicates

	fileKeys      []string
	originalNames []string
	answered      bool
}

// FileUpload returns the FILEUPLOAD wrapper, failing fast on a type
// mismatch.
func (q *ApplicantQuestion) FileUpload() (*FileUploadQuestion, error) {
	if err := q.requireType(model.QuestionTypeFileUpload); err != nil {
		return nil, err
	}
	predicates, _ := q.Definition.Predicates.(model.FileUploadValidationPredicates)
	keys, hasKeys := q.Data.ReadStringList(q.ScalarPath(model.ScalarFileKey))
	names, _ := q.Data.ReadStringList(q.ScalarPath(model.ScalarOriginalFileName))
	return &FileUploadQuestion{
		predicates:    predicates,
		fileKeys:      keys,
		originalNames: names,
		answered:      hasKeys && len(keys) > 0,
	}, nil
}

// FileKeys returns the stored object keys.
func (q *FileUploadQuestion) FileKeys() []string { return q.fileKeys }

// OriginalFileNames returns the applicant-visible file names.
func (q *FileUploadQuestion) OriginalFileNames() []string { return q.originalNames }

func (q *FileUploadQuestion) IsAnswered() bool { return q.answered }

func (q *FileUploadQuestion) QuestionErrors() []model.ValidationError {
	if !q.answered {
		return nil
	}
	if q.predicates.MaxFiles != nil && len(q.fileKeys) > *q.predicates.MaxFiles {
		return []model.ValidationError{
			model.ValidationErrorf("please upload at most %d files", *q.predicates.MaxFiles),
		}
	}
	return nil
}

func (q *FileUploadQuestion) TypeErrors() []model.ValidationError {
	if !q.answered {
		return nil
	}
	for _, key := range q.fileKeys {
		if key == "" {
			return []model.ValidationError{{Message: "uploaded file is missing its storage key"}}
		}
	}
	return nil
}
