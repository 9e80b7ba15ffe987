// Package pipeline sequences the four stages that turn a topic into a post
// package: caption generation, image generation, video stitching, and
// publishing. Every stage degrades to a local fallback when its external
// collaborator is missing or failing, so a run always completes with usable
// artifacts; each result carries provenance saying whether it is real or
// simulated.
package pipeline
