package composition

import "schoolnet/cohort/internal/db"

// FromDB loads the metadata table from the store
func FromDB(d *db.DB) (Metadata, error) {
	md, err := d.Metadata()
	if err != nil {
		return nil, err
	}
	return Metadata(md), nil
}
