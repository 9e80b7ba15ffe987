// Command postloom generates a social post package for a topic: a caption, an
// image, a short video, and an optional page post. Stages with missing
// credentials or tools produce simulated output instead of failing.
package main
