package gradcompress

// Blank-importing every scheme package populates compressor's registry as
// a side effect of package initialization, the same way a real deployment
// would import backends/xla and backends/simplego purely for their init()
// self-registration (spec §4.1, "a training driver ships a compressor
// choice over the network without compiling in the list of schemes at the
// call site" -- the call site here is this one file).
import (
	_ "github.com/flowmesh/gradcompress/onebit"
	_ "github.com/flowmesh/gradcompress/twobit"
)
