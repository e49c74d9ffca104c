package bytestring

// FileID is a small integer identifying a source file within a single
// indexing run. FileID(0) is reserved for synthetic or in-memory sources
// (a REPL line, for instance) that never correspond to a registered path.
type FileID uint32

// NoFile is the reserved identifier for sources with no registered path.
const NoFile FileID = 0

// Span is a half-open byte range [Start, End) into the source buffer
// identified by File. A zero-length span marks a "missing" construct
// inserted by error recovery.
type Span struct {
	Start int
	End   int
	File  FileID
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsMissing reports whether the span is a zero-width error-recovery marker.
func (s Span) IsMissing() bool {
	return s.Start == s.End
}

// Join returns the smallest span covering both s and other. Both spans
// must belong to the same file; Join panics otherwise since spans from
// different files are never meant to be combined.
func (s Span) Join(other Span) Span {
	if s.File != other.File {
		panic("bytestring: Join across different files")
	}
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end, File: s.File}
}

// Missing returns a zero-length span at offset within file, used when the
// parser inserts a placeholder for an unparseable construct.
func Missing(offset int, file FileID) Span {
	return Span{Start: offset, End: offset, File: file}
}

// FileRegistry maps source paths to stable FileIDs for the lifetime of a
// single process or long-lived index. It is the only place a path string
// is retained; spans elsewhere carry the small integer instead.
type FileRegistry struct {
	byPath map[string]FileID
	byID   []string
}

// NewFileRegistry creates an empty registry. FileID(0) is pre-reserved
// and never returned by Register.
func NewFileRegistry() *FileRegistry {
	return &FileRegistry{
		byPath: make(map[string]FileID),
		byID:   []string{""},
	}
}

// Register returns the FileID for path, allocating a new one if path has
// not been seen before.
func (r *FileRegistry) Register(path string) FileID {
	if id, ok := r.byPath[path]; ok {
		return id
	}
	id := FileID(len(r.byID))
	r.byPath[path] = id
	r.byID = append(r.byID, path)
	return id
}

// Path returns the path registered under id, or "" if id is unknown.
func (r *FileRegistry) Path(id FileID) string {
	if int(id) >= len(r.byID) {
		return ""
	}
	return r.byID[id]
}

// Lookup returns the FileID for path without registering it.
func (r *FileRegistry) Lookup(path string) (FileID, bool) {
	id, ok := r.byPath[path]
	return id, ok
}
