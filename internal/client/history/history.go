package history

// Store is the front door over both history backends. The remote record
// store is authoritative for new generations; the legacy store survives
// for entries created before server-side history existed.
type Store struct {
	Remote *RemoteStore
	Legacy *LegacyStore
}

func NewStore(remote *RemoteStore, legacy *LegacyStore) *Store {
	return &Store{Remote: remote, Legacy: legacy}
}
