// Package llm wraps the OpenAI-compatible chat completions endpoint used to
// draft social post captions. The client makes exactly one attempt per call;
// fallback behaviour belongs to the prompt stage.
package llm
