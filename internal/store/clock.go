package store

import "time"

// now is swapped out by tests that assert on timestamps.
var now = time.Now
