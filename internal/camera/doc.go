// Package camera watches the macOS unified log for AVFoundation capture
// session notifications and reports camera on/off edges.
//
// The monitor runs `log stream` with a predicate that only lets the two
// session notifications through. Each matching line fires a callback; there
// is no level tracking, so two consecutive start lines fire twice.
//
// Lifecycle is driven by a StopFlag owned by the application. A watchdog
// goroutine polls the flag and kills the subprocess, which closes stdout and
// lets the reader goroutine finish.
package camera
