package backend

// Type identifies a snapshot persistence backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	FileBackend   Type = "file"
)

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, FileBackend:
		return true
	}
	return false
}

// Config carries the backend selection and its settings.
type Config struct {
	Type          Type
	SQLiteDBPath  string
	DataDirectory string
}
