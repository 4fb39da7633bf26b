package malloc

import s "github.com/bnclabs/gosettings"
import "github.com/bnclabs/golog"

// Tunables, applied by Configure. Block geometry and size-class
// boundaries are compile time constants, see const.go.
var sascan = int64(2)            // secondary small slabs to reclaim from
var lascan = int64(4)            // secondary large slabs to reclaim from
var lbscan = int64(4)            // secondary large blocks to mint from
var hbscan = int64(8)            // huge blocks to scan per shard
var staticchunksize = int64(65536) // static allocator chunk

// Defaultsettings for this package.
//
// "scan.smallalloc" (int64, default: 2)
//	Number of secondary small slabs the slow path drains for
//	foreign frees before minting a new slab.
//
// "scan.largealloc" (int64, default: 4)
//	Same for the large, page-cell class.
//
// "scan.largeblock" (int64, default: 4)
//	Number of secondary large blocks probed for a free small block.
//
// "scan.hugeblock" (int64, default: 8)
//	Number of huge blocks probed per arena shard before reserving
//	a new one.
//
// "static.chunksize" (int64, default: 65536)
//	Chunk size of the never-freed bookkeeping allocator.
//
// "log.level" (string, default: "info")
// "log.file" (string, default: "")
//	Passed on to the logger.
func Defaultsettings() s.Settings {
	return s.Settings{
		"scan.smallalloc":  2,
		"scan.largealloc":  4,
		"scan.largeblock":  4,
		"scan.hugeblock":   8,
		"static.chunksize": 65536,
		"log.level":        "info",
		"log.file":         "",
	}
}

// Configure the package, to be called before the first allocation.
// Settings missing from `setts` keep their defaults.
func Configure(setts s.Settings) {
	setts = (s.Settings{}).Mixin(Defaultsettings(), setts)
	sa, la := setts.Int64("scan.smallalloc"), setts.Int64("scan.largealloc")
	lb, hb := setts.Int64("scan.largeblock"), setts.Int64("scan.hugeblock")
	chunksize := setts.Int64("static.chunksize")
	if sa < 1 || la < 1 || lb < 1 || hb < 1 {
		panicerr("scan depths must be positive")
	} else if chunksize < 4096 {
		panicerr("static.chunksize %v below one page", chunksize)
	}
	sascan, lascan, lbscan, hbscan = sa, la, lb, hb
	staticchunksize = chunksize
	logsetts := map[string]interface{}{
		"log.level": setts.String("log.level"),
		"log.file":  setts.String("log.file"),
	}
	log.SetLogger(nil, logsetts)
	log.Infof("malloc: configured with %v\n", setts)
}
