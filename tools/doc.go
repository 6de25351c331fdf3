// Package tools defines tool contracts, the tool registry and the chat tools.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Registry: immutable name lookup, argument validation and dispatch.
//   - Tools: getProductDetails, searchMemory, getWikipediaSummary.
//
// Soft failures (unknown product, no memory match, missing article) are
// returned as JSON content for the model. Errors are reserved for failures
// that should end the turn.
package tools
