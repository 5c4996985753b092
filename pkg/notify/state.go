package notify

// State is the dispatch state of a session.
type State int

const (
	StateIdle State = iota
	StateProcessing
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress messages reported while processing.
const (
	InfoPreparing    = "Preparing Notification"
	InfoResolvingKey = "Resolving Public Key..."
	InfoEncrypting   = "Encrypting Notification..."
	InfoUploading    = "Uploading Payload..."
	InfoSending      = "Sending Transaction..."
	InfoSent         = "Transaction Sent"
	InfoCompleted    = "Notification Sent"
)
