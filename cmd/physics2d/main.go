// Command physics2d runs the contact solver as a standalone
// simulation: load or generate a scene, step it at a fixed rate, and
// report statistics until the configured duration elapses or the
// process is interrupted.
package main

func main() {
	Execute()
}
