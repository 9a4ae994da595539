package domain

import (
	"fmt"
	"strings"
)

// Upload size limit enforced before dispatching uploadAndSave.
const MaxUploadBytes = 100 * 1024 * 1024

// ValidationError rejects a mutation before any optimistic update or
// remote dispatch happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// ValidateDraft checks a new video before it is saved. Duplicate URLs are
// detected against the active video set.
func ValidateDraft(v *Video, existing []Video) error {
	if strings.TrimSpace(v.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(v.Description) == "" {
		return &ValidationError{Field: "description", Reason: "required"}
	}
	if strings.TrimSpace(v.Category) == "" {
		return &ValidationError{Field: "category", Reason: "required"}
	}
	if v.VideoURL != "" {
		for i := range existing {
			if existing[i].VideoURL == v.VideoURL {
				return &ValidationError{Field: "videoUrl", Reason: "already in the gallery"}
			}
		}
	}
	return nil
}

// ValidateEdit checks the fields an edit may change.
func ValidateEdit(title, category string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(category) == "" {
		return &ValidationError{Field: "category", Reason: "required"}
	}
	return nil
}

// ValidateUpload checks a file upload before uploadAndSave is dispatched.
func ValidateUpload(fileName, mimeType string, size int64, existing []Video) error {
	if !strings.HasPrefix(mimeType, "video/") {
		return &ValidationError{Field: "mimeType", Reason: "not a video file"}
	}
	if size > MaxUploadBytes {
		return &ValidationError{Field: "file", Reason: "larger than 100MB"}
	}
	for i := range existing {
		if existing[i].Title == strings.TrimSuffix(fileName, fileExt(fileName)) {
			return &ValidationError{Field: "fileName", Reason: "already in the gallery"}
		}
	}
	return nil
}

func fileExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}
