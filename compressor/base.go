package compressor

// Base is embedded by every concrete compressor to implement the
// parameter-handling boilerplate (InitParams/Params) identically, so
// onebit/twobit only need to supply defaults and a validator.
type Base struct {
	params   Params
	validate func(Params)
	typeName string
}

// NewBase constructs a Base with the given defaults and validator.
// validate should Panic(KindConfiguration, ...) on an out-of-range field.
func NewBase(typeName string, defaults Params, validate func(Params)) Base {
	return Base{params: defaults, validate: validate, typeName: typeName}
}

func (b *Base) TypeString() string { return b.typeName }

func (b *Base) InitParams(kv []KV) {
	p := ApplyParams(b.params, kv)
	if b.validate != nil {
		b.validate(p)
	}
	b.params = p
}

func (b *Base) Params() Params { return b.params }
