package kernel

// TwoBitChargePack implements the two-bit charging form (spec §4.3): each
// element accumulates into its residual, is quantized to {-theta, 0,
// +theta}, and the emitted magnitude is charged back out of the
// residual. Like OneBitChargePack, the charging-form update carries the
// residual forward additively (r = R[i] + alpha*E[i]) rather than
// decaying it -- see DESIGN.md for why this differs from the pre-pass
// EMA used by the sign-only forms.
func TwoBitChargePack(e, residual []float32, theta, alpha float32, compressed []byte) {
	for i, ei := range e {
		r := residual[i] + alpha*ei
		var code byte
		switch {
		case r >= theta:
			code = code11
			r -= theta
		case r <= -theta:
			code = code10
			r += theta
		default:
			code = code00
		}
		setCode(compressed, i, code)
		residual[i] = r
	}
}

// TwoBitChargePackRange is TwoBitChargePack restricted to [start, end),
// for internal/accelsim's block-parallel dispatch (one goroutine per
// 16-element compressed float avoids write hazards on shared bytes).
func TwoBitChargePackRange(e, residual []float32, theta, alpha float32, compressed []byte, start, end int) {
	for i := start; i < end; i++ {
		r := residual[i] + alpha*e[i]
		var code byte
		switch {
		case r >= theta:
			code = code11
			r -= theta
		case r <= -theta:
			code = code10
			r += theta
		default:
			code = code00
		}
		setCode(compressed, i, code)
		residual[i] = r
	}
}

// TwoBitUnpack decodes: 11->+theta, 10->-theta, 00 (and the unreachable
// 01)->0.
func TwoBitUnpack(compressed []byte, theta float32, decoded []float32) {
	for i := range decoded {
		switch getCode(compressed, i) {
		case code11:
			decoded[i] = theta
		case code10:
			decoded[i] = -theta
		default:
			decoded[i] = 0
		}
	}
}

// TwoBitUnpackRange is TwoBitUnpack restricted to [start, end).
func TwoBitUnpackRange(compressed []byte, theta float32, decoded []float32, start, end int) {
	for i := start; i < end; i++ {
		switch getCode(compressed, i) {
		case code11:
			decoded[i] = theta
		case code10:
			decoded[i] = -theta
		default:
			decoded[i] = 0
		}
	}
}

// TwoBitUnpackAndAddRange is TwoBitUnpackAndAdd restricted to [start, end).
func TwoBitUnpackAndAddRange(compressed []byte, theta float32, accumulator []float32, start, end int) {
	for i := start; i < end; i++ {
		switch getCode(compressed, i) {
		case code11:
			accumulator[i] += theta
		case code10:
			accumulator[i] -= theta
		}
	}
}

// TwoBitUnpackAndAdd decodes and accumulates in one pass.
func TwoBitUnpackAndAdd(compressed []byte, theta float32, accumulator []float32) {
	for i := range accumulator {
		switch getCode(compressed, i) {
		case code11:
			accumulator[i] += theta
		case code10:
			accumulator[i] -= theta
		}
	}
}

// TwoBitSignPack packs the sign-only two-bit form: residual must already
// hold the post-MomentumPrepass value (see onebit.go); this function
// only reads it, it does not charge anything back out.
func TwoBitSignPack(residual []float32, theta float32, compressed []byte) {
	for i, r := range residual {
		var code byte
		switch {
		case r >= theta:
			code = code11
		case r <= -theta:
			code = code10
		default:
			code = code00
		}
		setCode(compressed, i, code)
	}
}

// TwoBitSignPackRange is TwoBitSignPack restricted to [start, end).
func TwoBitSignPackRange(residual []float32, theta float32, compressed []byte, start, end int) {
	for i := start; i < end; i++ {
		r := residual[i]
		var code byte
		switch {
		case r >= theta:
			code = code11
		case r <= -theta:
			code = code10
		default:
			code = code00
		}
		setCode(compressed, i, code)
	}
}
