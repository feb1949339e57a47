// Package viz is the bubbletea front-end: a live bar view of one sorting
// session and a launcher menu around it.
package viz
