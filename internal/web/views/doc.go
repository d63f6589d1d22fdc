// Package views renders the HTML pages and fragments served to browsers.
//
// Components are written in views.templ; views_templ.go is generated from
// it with `templ generate`. Every dynamic value is escaped by templ.
package views
