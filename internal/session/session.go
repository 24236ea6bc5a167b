package session

import (
	"time"

	"github.com/desertthunder/uplink/internal/models"
	"github.com/desertthunder/uplink/internal/transfer"
)

// Status enumerates the states of an upload session.
type Status int

const (
	StatusIdle Status = iota
	StatusPreparing
	StatusTransferring
	StatusCompleting
	StatusError
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPreparing:
		return "preparing"
	case StatusTransferring:
		return "transferring"
	case StatusCompleting:
		return "completing"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return ""
	}
}

// Session is the stateful record of one monitored upload.
//
// The file list and byte totals are captured when the submission is observed
// and never change afterwards; only Status and LoadedBytes move while the
// transfer runs. The session owns exactly one transfer handle while
// transferring and releases it on every terminal path.
type Session struct {
	ID          string
	Status      Status
	Files       []models.File
	TotalBytes  int64
	LoadedBytes int64
	StartedAt   time.Time
	FormAction  string

	handle *transfer.Handle
}

// record snapshots the session's terminal state for persistence. Completing
// is persisted as "succeeded" since teardown follows immediately.
func (s *Session) record(navigation, errDetail string, finishedAt time.Time) *models.SessionRecord {
	status := s.Status.String()
	if s.Status == StatusCompleting {
		status = "succeeded"
	}
	return &models.SessionRecord{
		ID:          s.ID,
		Status:      status,
		FileCount:   len(s.Files),
		TotalBytes:  s.TotalBytes,
		LoadedBytes: s.LoadedBytes,
		FormAction:  s.FormAction,
		Navigation:  navigation,
		Error:       errDetail,
		StartedAt:   s.StartedAt,
		FinishedAt:  finishedAt,
	}
}
