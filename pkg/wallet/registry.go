package wallet

import "sync"

// TransactionCodec converts one currency family's transactions between the
// rich and wire forms. Implementations own the family-specific Payload
// encoding; this package never interprets it.
type TransactionCodec interface {
	Serialize(tx Transaction) (RawTransaction, error)
	Deserialize(raw RawTransaction) (Transaction, error)
}

// Registry resolves the TransactionCodec for a currency family. Families
// without a registered codec fall back to the generic JSON codec, which
// handles the common fields and carries Payload through untouched.
// Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]TransactionCodec
}

// NewRegistry creates an empty registry; every family resolves to the
// generic codec until overridden.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]TransactionCodec)}
}

// RegisterTransactionCodec installs a family-specific codec, replacing any
// previous registration for that family.
func (r *Registry) RegisterTransactionCodec(family string, codec TransactionCodec) {
	r.mu.Lock()
	r.codecs[family] = codec
	r.mu.Unlock()
}

// TransactionCodecFor returns the codec registered for family, or the
// generic codec when none is.
func (r *Registry) TransactionCodecFor(family string) TransactionCodec {
	r.mu.RLock()
	codec, ok := r.codecs[family]
	r.mu.RUnlock()
	if !ok {
		return genericCodec{}
	}
	return codec
}

// genericCodec is the fallback TransactionCodec.
type genericCodec struct{}

func (genericCodec) Serialize(tx Transaction) (RawTransaction, error) {
	return SerializeTransaction(tx), nil
}

func (genericCodec) Deserialize(raw RawTransaction) (Transaction, error) {
	return DeserializeTransaction(raw)
}
