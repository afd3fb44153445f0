// Package foldertree contains core domain types and error kinds shared by the
// in-memory folder tree, the plugin module registry and the invocation engine
package foldertree
