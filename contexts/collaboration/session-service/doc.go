// Package sessionservice implements retro lifecycle management inside the
// collaboration context: session creation with the canonical column
// layout, session history and tag queries over HTTP.
package sessionservice
