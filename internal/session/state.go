package session

import "github.com/pasjesplank/plank/internal/model"

// State is the ephemeral UI state of one session. Nothing here is persisted.
type State struct {
	Filter      string
	DetailID    string
	Add         AddForm
	ScannerOpen bool
	Toast       string

	scanGen   uint64 // bumped on every scanner open and close
	toastGen  uint64
	toastStop func()
}

func newState() State {
	return State{Filter: model.FilterAll, Add: newAddForm()}
}
