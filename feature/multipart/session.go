package multipart

import "s3-toolkit/core/storage"

// State is the position of a session in the upload workflow.
type State int

const (
	StateInitiated State = iota
	StatePartsUploading
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitiated:
		return "Initiated"
	case StatePartsUploading:
		return "PartsUploading"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Session is one multipart upload.
// Parts are numbered from 1 without gaps, in the order the chunks were read.
type Session struct {
	UploadID string
	Bucket   string
	Key      string
	Parts    []storage.PartRecord
	State    State
	// Result is set once the session is Completed.
	Result storage.UploadResult
}

func (s *Session) nextPartNumber() int32 {
	return int32(len(s.Parts) + 1)
}
