// Package git inspects the work tree a run is started in so that checks can
// be limited to the files a change touches.
package git
