// Package capture records the network traffic a browser session produces:
// the JSON documents the site loads and the public API calls it makes.
package capture
