// Package termui renders the MDT in a terminal. The model subscribes to a
// Broadcaster for view updates and drives the controller through commands
// that run off the bubbletea event loop, so the controller never waits on
// the terminal and the terminal never blocks on the controller.
package termui
