// Package driving defines the inbound ports of the sesame core: the
// operations the CLI invokes on the login service.
package driving
