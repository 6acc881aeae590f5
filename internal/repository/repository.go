package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Donor    DonorRepository
	Dispatch DispatchRepository
}

// NewRepositories wires the spreadsheet store. The dispatch log is only
// available when a database handle is supplied.
func NewRepositories(dataPath string, db *sqlx.DB) *Repositories {
	repos := &Repositories{
		Donor: NewDonorSheetRepository(dataPath),
	}
	if db != nil {
		repos.Dispatch = NewDispatchRepository(db)
	}
	return repos
}
