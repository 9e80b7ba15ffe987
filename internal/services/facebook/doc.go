// Package facebook publishes photos with captions through the Graph API.
// A client without a page token reports itself unconfigured so the post stage
// can select the simulated path without attempting a request.
package facebook
