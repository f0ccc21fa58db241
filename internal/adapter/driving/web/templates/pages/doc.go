// Package pages holds the page-level templ components.
package pages
