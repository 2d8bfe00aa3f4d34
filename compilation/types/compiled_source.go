package types

// SourceArtifact represents a source descriptor for a smart contract compilation, including AST and contained
// CompiledContract instances.
type SourceArtifact struct {
	// Ast is the compiler's abstract syntax tree for the source, kept in its raw decoded form.
	Ast any

	// Contracts maps contract names to the contracts defined in this source.
	Contracts map[string]CompiledContract
}
