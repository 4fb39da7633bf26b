package vmem

import "golang.org/x/sys/unix"

// Overcommit reserved ranges, pages are accounted only once committed.
const mapnoreserve = unix.MAP_NORESERVE
