// Package pagescrape classifies pages of the stats site into one of a few
// known DOM layouts and extracts the fields each layout carries. It works on
// rendered HTML, so any page the browser reaches can be handed to it.
package pagescrape
