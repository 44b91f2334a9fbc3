package analysis

// Repository holds at most one result per action id; Upsert is last-write-wins.
type Repository interface {
	Upsert(r Result) error
	Get(id ActionID) (Result, bool)
	ListAll() map[ActionID]Result
}
