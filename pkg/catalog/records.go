package catalog

// ActionType identifies what kind of mutation a HistoryRecord represents.
type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
	ActionRename ActionType = "rename"
)

// Valid reports whether t is one of the recognized action types.
func (t ActionType) Valid() bool {
	switch t {
	case ActionAdd, ActionUpdate, ActionDelete, ActionRename:
		return true
	default:
		return false
	}
}

// FileRecord is the currently-tracked state of one path, stored in the files
// table. Path is relative to the repository root.
type FileRecord struct {
	ID          int64
	Path        string
	Fingerprint string
	Size        int64
	CreatedAt   int64
	UpdatedAt   int64
	LastChecked *int64
}

// HistoryRecord is one row of the append-only audit log. Rows are never
// mutated after insert. Path is the new path for a Rename; Metadata carries
// `{"old_path": ...}` for Rename rows and is nil otherwise.
type HistoryRecord struct {
	ID          int64
	ActionID    int64
	ActionType  ActionType
	Path        string
	Fingerprint string
	Size        int64
	Metadata    *string
	CreatedAt   int64
}

// RenamePair describes one rename to apply in a BatchRename operation.
type RenamePair struct {
	OldPath string
	NewPath string
}

// LightweightRecord is the (path, size, created_at) projection used by
// lightweight rename-key bucketing (status mode), avoiding a full row scan.
type LightweightRecord struct {
	Path      string
	Size      int64
	CreatedAt int64
}
