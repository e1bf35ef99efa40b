package apex

import "errors"

// Error kinds returned by Convert and its collaborators. Structurally
// invalid options or unreadable input abort the conversion by returning one
// of these wrapped with additional context via fmt.Errorf("%w: ...").
var (
	// ErrInvalidOptions indicates a structurally invalid options record,
	// such as an unrecognized mode string.
	ErrInvalidOptions = errors.New("apex: invalid options")
	// ErrMetadataMalformed indicates a metadata block that could not be
	// parsed. Callers never see this directly: malformed metadata degrades
	// silently to "no metadata" per spec.
	ErrMetadataMalformed = errors.New("apex: malformed metadata")
	// ErrIncludeNotFound indicates an include directive referencing a path
	// that does not exist.
	ErrIncludeNotFound = errors.New("apex: include not found")
	// ErrIncludeCycle indicates a transclusion cycle detected via the
	// canonical-path stack.
	ErrIncludeCycle = errors.New("apex: include cycle")
	// ErrIncludeTooDeep indicates the include recursion exceeded MaxIncludeDepth.
	ErrIncludeTooDeep = errors.New("apex: include nesting too deep")
	// ErrBibliographyParse indicates a bibliography file that could not be
	// parsed in any supported format.
	ErrBibliographyParse = errors.New("apex: bibliography parse error")
	// ErrEncodingError indicates input that is not valid UTF-8.
	ErrEncodingError = errors.New("apex: invalid encoding")
	// ErrInternalLimit indicates an internal safety limit was exceeded
	// (e.g. pathological nesting the renderer refuses to walk further).
	ErrInternalLimit = errors.New("apex: internal limit exceeded")
)

// MaxIncludeDepth bounds transclusion recursion.
const MaxIncludeDepth = 64
