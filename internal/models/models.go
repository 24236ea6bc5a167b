package models

import (
	"fmt"
	"io"
	"time"
)

// EncodingMultipart is the only form encoding capable of carrying files.
// Submissions with any other encoding are never intercepted.
const EncodingMultipart = "multipart/form-data"

// FieldKind distinguishes plain value fields from file-bearing fields.
type FieldKind int

const (
	FieldValue FieldKind = iota
	FieldFile
)

// File describes one selected file at submission time.
//
// Open provides the file's content when the transfer executes. Descriptors
// used only for classification may leave it nil.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Field is one named entry of a form submission.
type Field struct {
	Name  string
	Kind  FieldKind
	Value string // populated for FieldValue
	Files []File // populated for FieldFile
}

// Submission describes one user-initiated form submission.
//
// Action is the declared submission target; an empty Action means the
// submission posts back to the page it originated from.
type Submission struct {
	Encoding string
	Action   string
	Fields   []Field
}

// Files returns all selected files across file fields, in field order.
func (s Submission) Files() []File {
	var files []File
	for _, f := range s.Fields {
		if f.Kind == FieldFile {
			files = append(files, f.Files...)
		}
	}
	return files
}

// FileCount returns the number of selected files across all file fields.
func (s Submission) FileCount() int {
	count := 0
	for _, f := range s.Fields {
		if f.Kind == FieldFile {
			count += len(f.Files)
		}
	}
	return count
}

// TotalBytes returns the sum of all selected files' sizes.
func (s Submission) TotalBytes() int64 {
	var total int64
	for _, f := range s.Fields {
		if f.Kind == FieldFile {
			for _, file := range f.Files {
				total += file.Size
			}
		}
	}
	return total
}

// SessionRecord is the persisted outcome of one upload session.
type SessionRecord struct {
	ID          string
	Status      string
	FileCount   int
	TotalBytes  int64
	LoadedBytes int64
	FormAction  string
	Navigation  string // resolved navigation target; empty unless the session succeeded
	Error       string // failure detail; empty unless the session errored
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Validate checks that the record is internally consistent before persistence.
func (r *SessionRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("session record missing ID")
	}
	if r.Status == "" {
		return fmt.Errorf("session record missing status")
	}
	if r.TotalBytes < 0 || r.LoadedBytes < 0 {
		return fmt.Errorf("session record has negative byte counts")
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return fmt.Errorf("session record finished before it started")
	}
	return nil
}

// Duration returns the wall-clock time the session spanned.
func (r *SessionRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
