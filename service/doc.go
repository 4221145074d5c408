// Package service holds the operations behind the HTTP routes. Each call
// checks out one unit of work and closes it before returning.
package service
