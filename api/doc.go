// Package api exposes the user service over HTTP with gin.
package api
