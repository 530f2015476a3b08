// Package manifest turns the JSON documents the stats site loads into a
// single localized manifest of operators, seasons, divisions and ranks,
// together with the list of assets that manifest points at.
//
// The source documents reference display text through objects of the form
// {"oasisId": N}; Localize swaps each of them for the string the locale
// document maps N to. Assemble then walks the localized documents and builds
// flat, id-keyed records: seasons are "sN", divisions "sN-dM", ranks "sN-rM".
package manifest
