// SPDX-License-Identifier: MIT

package processing

import "errors"

// ErrGone is returned by the download gate when a session is still present
// in the store but its artifact has passed its recorded expiry.
var ErrGone = errors.New("processing: artifact expired")

// ErrAlreadyStarted is returned when Start is invoked for a job that is
// already processing or has reached a terminal state. A second start never
// re-runs a job.
var ErrAlreadyStarted = errors.New("processing: job already started")

// ErrQueueFull is returned when the background worker queue cannot accept
// another job.
var ErrQueueFull = errors.New("processing: worker queue full")
