package kernel

// OneBitChargePack implements the threshold-charging one-bit form (spec
// §4.3, "OneBit, threshold-charging form"): the default "OneBit" scheme.
// For each element it folds e[i] into the residual with momentum alpha,
// emits a bit for whether the result exceeds theta, and charges theta
// back out of the residual in the direction it fired. residual is
// mutated in place; compressed must be at least CompressedByteLen(len(e),
// OneBitFactor) bytes and is only written at bit positions < len(e).
//
// This is a pure per-element loop: block boundaries only matter for
// avoiding write hazards when parallelized (internal/accelsim splits it
// one goroutine per 32-element compressed float), the math is identical
// either way.
func OneBitChargePack(e, residual []float32, theta, alpha float32, compressed []byte) {
	for i, ei := range e {
		r := residual[i] + alpha*ei
		if r > theta {
			setBit(compressed, i, true)
			r -= theta
		} else {
			setBit(compressed, i, false)
			r += theta
		}
		residual[i] = r
	}
}

// OneBitChargePackRange runs OneBitChargePack over the half-open element
// range [start, end), for exclusive use by internal/accelsim's
// block-parallel dispatch (each goroutine owns disjoint compressed
// bytes, so there's no write hazard across calls with block-aligned
// ranges).
func OneBitChargePackRange(e, residual []float32, theta, alpha float32, compressed []byte, start, end int) {
	for i := start; i < end; i++ {
		r := residual[i] + alpha*e[i]
		if r > theta {
			setBit(compressed, i, true)
			r -= theta
		} else {
			setBit(compressed, i, false)
			r += theta
		}
		residual[i] = r
	}
}

// OneBitUnpack decodes a one-bit packed buffer to +1/-1 per element.
// Shared by every one-bit scheme (charging, sign-only, fused) since they
// all commit to the same ±1 decoded symbol (spec §4.4).
func OneBitUnpack(compressed []byte, decoded []float32) {
	for i := range decoded {
		if getBit(compressed, i) {
			decoded[i] = 1
		} else {
			decoded[i] = -1
		}
	}
}

// OneBitUnpackRange is OneBitUnpack restricted to the half-open element
// range [start, end), writing decoded[start:end] while reading bits at
// their true global index -- unlike a plain sub-slice call, this keeps
// bit indices correct when a caller (internal/accelsim) shards decoding
// across goroutines.
func OneBitUnpackRange(compressed []byte, decoded []float32, start, end int) {
	for i := start; i < end; i++ {
		if getBit(compressed, i) {
			decoded[i] = 1
		} else {
			decoded[i] = -1
		}
	}
}

// OneBitUnpackAndAddRange is OneBitUnpackAndAdd restricted to [start, end).
func OneBitUnpackAndAddRange(compressed []byte, accumulator []float32, start, end int) {
	for i := start; i < end; i++ {
		if getBit(compressed, i) {
			accumulator[i] += 1
		} else {
			accumulator[i] -= 1
		}
	}
}

// OneBitUnpackAndAdd decodes and accumulates in one pass (spec §4.3,
// "decompress-and-add"), avoiding a materialized intermediate tensor.
func OneBitUnpackAndAdd(compressed []byte, accumulator []float32) {
	for i := range accumulator {
		if getBit(compressed, i) {
			accumulator[i] += 1
		} else {
			accumulator[i] -= 1
		}
	}
}

// MomentumPrepass applies the sign-only forms' error-feedback update as a
// separate pass over residual: R[i] <- (1-alpha)*R[i] + alpha*e[i]. Used
// by OneBit-V2 and TwoBit-V2 before packing; unlike the charging forms,
// nothing is charged back out afterward -- a separate scaling layer
// (outside this core, per spec §4.3) is responsible for that.
func MomentumPrepass(e, residual []float32, alpha float32) {
	for i, ei := range e {
		residual[i] = (1-alpha)*residual[i] + alpha*ei
	}
}

// OneBitSignPack packs the sign-only form: bit set iff residual[i] >=
// theta. residual must already hold the post-MomentumPrepass value; this
// function does not mutate it.
func OneBitSignPack(residual []float32, theta float32, compressed []byte) {
	for i, r := range residual {
		setBit(compressed, i, r >= theta)
	}
}

// OneBitSignPackRange is OneBitSignPack restricted to [start, end), for
// internal/accelsim's block-parallel dispatch.
func OneBitSignPackRange(residual []float32, theta float32, compressed []byte, start, end int) {
	for i := start; i < end; i++ {
		setBit(compressed, i, residual[i] >= theta)
	}
}

// OneBitFusedPack implements OneBit-V2-Fused: like OneBitChargePack, but
// the charge is a fixed ±1 rather than ±theta, matching its ±1 decoded
// symbol and making it eligible for fast aggregation (the sum of decoded
// symbols alone, without theta, is meaningful to add across workers).
func OneBitFusedPack(e, residual []float32, theta, alpha float32, compressed []byte) {
	for i, ei := range e {
		r := residual[i] + alpha*ei
		if r > theta {
			setBit(compressed, i, true)
			r -= 1
		} else {
			setBit(compressed, i, false)
			r += 1
		}
		residual[i] = r
	}
}

// OneBitFusedPackRange is OneBitFusedPack restricted to [start, end).
func OneBitFusedPackRange(e, residual []float32, theta, alpha float32, compressed []byte, start, end int) {
	for i := start; i < end; i++ {
		r := residual[i] + alpha*e[i]
		if r > theta {
			setBit(compressed, i, true)
			r -= 1
		} else {
			setBit(compressed, i, false)
			r += 1
		}
		residual[i] = r
	}
}
