package gadgets

// Metadata is the contract for gadget identity and display data.
type Metadata struct {
	ID          string
	Name        string
	Description string
}

// Result is the minimal deterministic execution result shape.
type Result struct {
	Status   string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// OperationSpec defines one supported gadget action.
type OperationSpec struct {
	Name        string
	Description string
	Idempotent  bool
}

// Gadget is the execution boundary used by gadgetctl dispatch.
type Gadget interface {
	Metadata() Metadata
	Operations() []OperationSpec
	Execute(action string, args map[string]string) (Result, error)
}

// Factory builds a gadget from the shared environment.
type Factory func(env Env) (Gadget, error)
