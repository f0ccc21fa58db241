// Package templates holds the shared page chrome. Components are written in
// .templ files; run go generate to rebuild the _templ.go files.
package templates

//go:generate go tool templ generate -path .
