// Package debug implements the core's dev-log categories. spec.md §9
// notes that the original's dev-log categories are static global state,
// and that a systems rewrite should turn each into a compile-time-
// selected trait implementation per module. Go has no monomorphized
// trait selection, so the nearest idiomatic equivalent is used instead:
// a small Tracer interface with two concrete implementations — one that
// forwards to log/slog, one a true no-op — chosen once at construction
// and held as a field, never branched on per call site.
package debug

import "log/slog"

// Category names one of the core's components, matching the package
// layout (`saturn/<category>`).
type Category uint32

const (
	CategoryScheduler Category = 1 << iota
	CategoryBus
	CategoryCartridge
	CategorySysmem
	CategorySCU
	CategorySCUDSP
	CategorySCSP
	CategoryCDBlock
	CategoryFacade
)

func (c Category) String() string {
	switch c {
	case CategoryScheduler:
		return "scheduler"
	case CategoryBus:
		return "bus"
	case CategoryCartridge:
		return "cartridge"
	case CategorySysmem:
		return "sysmem"
	case CategorySCU:
		return "scu"
	case CategorySCUDSP:
		return "scudsp"
	case CategorySCSP:
		return "scsp"
	case CategoryCDBlock:
		return "cdblock"
	case CategoryFacade:
		return "saturn"
	default:
		return "unknown"
	}
}

// AllCategories is every category ORed together, for "trace everything"
// configuration.
const AllCategories = CategoryScheduler | CategoryBus | CategoryCartridge |
	CategorySysmem | CategorySCU | CategorySCUDSP | CategorySCSP | CategoryCDBlock | CategoryFacade

// Tracer is what every component holds a reference to instead of calling
// log/slog directly, so the host can select per-category verbosity (or
// none at all, at zero per-call cost) once at bring-up.
type Tracer interface {
	// Enabled reports whether a category is currently traced, so callers
	// can skip building an expensive message when it's not.
	Enabled(category Category) bool
	// Trace emits one structured log line for a category.
	Trace(category Category, msg string, args ...any)
}

// slogTracer forwards enabled categories to a *slog.Logger.
type slogTracer struct {
	logger  *slog.Logger
	enabled Category
}

// NewSlogTracer returns a Tracer that logs every category in enabled
// through logger (slog.Default() if nil).
func NewSlogTracer(logger *slog.Logger, enabled Category) Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogTracer{logger: logger, enabled: enabled}
}

func (t *slogTracer) Enabled(category Category) bool { return t.enabled&category != 0 }

func (t *slogTracer) Trace(category Category, msg string, args ...any) {
	if !t.Enabled(category) {
		return
	}
	t.logger.Debug(msg, append([]any{"category", category.String()}, args...)...)
}

// nopTracer discards everything; Enabled always reports false so callers
// skip message construction entirely.
type nopTracer struct{}

// Nop is the zero-cost Tracer used when a component isn't given one
// explicitly.
var Nop Tracer = nopTracer{}

func (nopTracer) Enabled(Category) bool                { return false }
func (nopTracer) Trace(Category, string, ...any) {}
