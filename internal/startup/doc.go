// Package startup handles worker configuration loading, build
// information, and startup logging.
package startup
