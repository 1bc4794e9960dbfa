package buildcfg

import "fmt"

// Backend selects the code generation strategy of the compiler.
type Backend int

// Enumeration of compiler backends.
const (
	BackendNative     Backend = iota // Fast native code generator (default).
	BackendOptimizing                // Slower, optimizing code generator.
)

func (b Backend) String() string {
	switch b {
	case BackendNative:
		return "native"
	case BackendOptimizing:
		return "optimizing"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Backend) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// Optimization is the optimization level requested from the compiler.
type Optimization int

// Enumeration of optimization levels.
const (
	OptimizationDebug Optimization = iota // No optimization, full debug info (default).
	OptimizationHigh                      // Most aggressive speed optimization.

	// OptimizationSize optimizes for binary size. No build argument selects it
	// yet; it is kept so drivers can render it.
	OptimizationSize
)

func (o Optimization) String() string {
	switch o {
	case OptimizationDebug:
		return "debug"
	case OptimizationHigh:
		return "high"
	case OptimizationSize:
		return "size"
	default:
		return fmt.Sprintf("Optimization(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Optimization) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// OutputType is the kind of artifact the compiler should produce.
type OutputType int

// Enumeration of output types.
const (
	OutputExecutable OutputType = iota // Link an executable (default).
	OutputNone                         // Compile for diagnostics only.
)

func (t OutputType) String() string {
	switch t {
	case OutputExecutable:
		return "executable"
	case OutputNone:
		return "none"
	default:
		return fmt.Sprintf("OutputType(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t OutputType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
