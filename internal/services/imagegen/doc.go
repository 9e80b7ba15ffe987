// Package imagegen wraps the OpenAI-compatible image generation endpoint that
// turns captions into post imagery. Responses are requested as base64 JSON so
// the stage can write the file itself and keep overwrite semantics in one
// place.
package imagegen
