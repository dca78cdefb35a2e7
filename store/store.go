package store

// Fixed keys used by the client for persisted state.
const (
	KeyTokenPair = "tokenPair"
	KeyLoggedIn  = "loggedIn"
	KeyConfig    = "config"
)

// KVStore is a durable, synchronous, string-keyed store. Values survive
// process restarts within one data directory. Get returns ("", false) when
// the key is absent.
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}
