package task

// Kind is the closed classification of a generation request. The string
// values are the exact lowercase labels exchanged with the classifier; any
// other label is indistinguishable from KindUnknown.
type Kind string

const (
	KindDocument Kind = "document"
	KindRoadmap  Kind = "roadmap"
	KindEmail    Kind = "email"
	KindUnknown  Kind = "unknown"
)

// ParseKind maps a normalized classifier label to a Kind. Anything outside
// the recognized vocabulary (empty, multi-word, malformed) maps to unknown.
func ParseKind(label string) Kind {
	switch Kind(label) {
	case KindDocument, KindRoadmap, KindEmail:
		return Kind(label)
	default:
		return KindUnknown
	}
}

// Recognized reports whether the kind routes to a content sink.
func (k Kind) Recognized() bool {
	switch k {
	case KindDocument, KindRoadmap, KindEmail:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable task label for a kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindRoadmap:
		return "Project Timeline"
	case KindDocument:
		return "PRD Document"
	case KindEmail:
		return "Email Template"
	default:
		return "Processing Task"
	}
}

func (k Kind) String() string {
	return string(k)
}
