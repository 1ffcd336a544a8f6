// Package shelverrs provides centralized error types for the shelv text
// engine.
//
// All custom error types in this package:
//   - Use pointer receivers for the Error() method
//   - Include structured fields for contextual information
//   - Implement Unwrap() when wrapping underlying errors
//
// Error types are organized by domain, one file per kind:
//   - change.go: TextChange engine errors
//   - settings.go: settings grammar parse errors
//   - hotkey.go: global hotkey registration errors
//   - llm.go: streaming LLM request errors
//   - io.go: note persistence errors
package shelverrs
