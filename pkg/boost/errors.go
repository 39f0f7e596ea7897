package boost

import "github.com/joomcode/errorx"

var (
	// Errors is the engine error namespace.
	Errors = errorx.NewNamespace("boost")
	// ErrConstruction means the audio context or gain node could not be built.
	ErrConstruction = Errors.NewType("construction")
	// ErrResumeDenied means the platform refused to resume the audio context.
	ErrResumeDenied = Errors.NewType("resume_denied")
	// ErrAttach means a media element could not be routed through the gain node.
	ErrAttach = Errors.NewType("attach")
	// ErrStorage means the session store failed.
	ErrStorage = Errors.NewType("storage")
)
