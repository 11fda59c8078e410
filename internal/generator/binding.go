package generator

// Vars maps template placeholders to their values.
type Vars = map[string]string

// Placeholder names available to templates.
const (
	VarRootNamespace = "root_namespace"
	VarNamespace     = "namespace"
	VarClassName     = "class_name"
	VarEntityType    = "entity_type"
	VarEntityName    = "entity_name"
	VarEntityClass   = "entity_class"
)

// Binding pairs a template with its destination and placeholder values.
type Binding struct {
	Template    string
	Destination string
	Vars        Vars
}

// Writer renders and stages bindings, then commits them as one batch.
// Discard drops everything staged since the last commit.
// *projectfs.Stager is the production implementation.
type Writer interface {
	RenderAndStage(dest, template string, vars Vars) error
	CommitStagedWrites() error
	Discard()
}

// Kind identifies a generation mode.
type Kind string

const (
	KindBasic Kind = "basic"
	KindFull  Kind = "full"
)
