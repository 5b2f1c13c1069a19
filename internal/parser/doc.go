// Package parser recovers structured data from unreliable generative
// model output. Recovery is a cascade of pure text transforms, each
// attempted only when the previous stage fails to decode: strict parse,
// Markdown fence stripping, balanced-brace extraction, and heuristic
// artifact repair (trailing commas, comments, doubled commas).
package parser
