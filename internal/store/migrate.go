package store

import "github.com/vibecut/daemon/internal/domain"

// migrate brings the schema up to date using additive-only evolution:
// every revision only adds tables or columns, never drops or renames
// one, so a daemon built from an older binary can still read rows
// written by a newer one. AutoMigrate over GORM's struct tags handles
// the common case (new table, new column with a tag-declared
// default); migrationSteps below exist for columns that were
// introduced after the baseline schema shipped and need an explicit
// probe-and-add instead of relying on AutoMigrate's defaulting.
func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(s.allModels()...); err != nil {
		return err
	}
	for _, step := range migrationSteps {
		if err := step(s); err != nil {
			return err
		}
	}
	return nil
}

type migrationStep func(s *Store) error

// migrationSteps is the ordered, append-only list of explicit additive
// migrations. New entries are added to the end; existing entries are
// never edited or removed once released, since a column probe must
// stay valid for every prior version of the database.
var migrationSteps = []migrationStep{
	addColumnIfMissing(&domain.Segment{}, "src_in_ticks"),
	addColumnIfMissing(&domain.Segment{}, "src_out_ticks"),
	addColumnIfMissing(&domain.Segment{}, "dedupe_key"),
	addColumnIfMissing(&domain.MediaAsset{}, "is_reference"),
}

// addColumnIfMissing probes the live schema with the migrator's
// HasColumn check (a thin wrapper over PRAGMA table_info on sqlite)
// and adds the column from the struct tag only if it is absent. This
// is a no-op on a fresh database, since AutoMigrate already created
// the column; it matters for a database file created by an older
// revision of this daemon that predates the column.
func addColumnIfMissing(model any, column string) migrationStep {
	return func(s *Store) error {
		m := s.db.Migrator()
		if m.HasColumn(model, column) {
			return nil
		}
		return m.AddColumn(model, column)
	}
}
