// Package driven defines the outbound ports of the sesame core: the
// capabilities the login service needs from the outside world (browser
// launch, callback listening, code exchange, token persistence).
// Adapters implement these interfaces.
package driven
