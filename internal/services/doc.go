// Package services hosts clients for the external collaborators the pipeline
// chains together: the chat-completions caption service, the image-generation
// endpoint, the ffmpeg binary, and the Facebook Graph API.
//
// The package root provides the shared error taxonomy. Stage code classifies
// failures with the sentinel errors here; everything except validation errors
// is absorbed into a stage's simulated fallback path.
package services
