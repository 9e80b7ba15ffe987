// Package webui serves a minimal browser demo for the image stage: submit a
// prompt, get the generated (or placeholder) image back with a cache-busting
// URL so regenerations show up immediately.
package webui
